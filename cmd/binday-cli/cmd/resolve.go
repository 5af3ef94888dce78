package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"binday-backend/lib/address"
	"binday-backend/lib/resultlog"
	"binday-backend/lib/waste"
	"binday-backend/services/resolver"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var resolveFlags struct {
	authority    string
	unit         string
	streetNumber string
	streetName   string
	suburb       string
	state        string
	postcode     string
	lat          float64
	lng          float64
}

func init() {
	flags := resolveCmd.Flags()
	flags.StringVar(&resolveFlags.authority, "authority", "", "authority identifier (e.g. whitehorse)")
	flags.StringVar(&resolveFlags.unit, "unit", "", "unit number")
	flags.StringVar(&resolveFlags.streetNumber, "street-number", "", "street number")
	flags.StringVar(&resolveFlags.streetName, "street", "", "street name")
	flags.StringVar(&resolveFlags.suburb, "suburb", "", "suburb")
	flags.StringVar(&resolveFlags.state, "state", "VIC", "state abbreviation")
	flags.StringVar(&resolveFlags.postcode, "postcode", "", "postcode")
	flags.Float64Var(&resolveFlags.lat, "lat", 0, "latitude of the address")
	flags.Float64Var(&resolveFlags.lng, "lng", 0, "longitude of the address")
	resolveCmd.MarkFlagRequired("authority")
	resolveCmd.MarkFlagRequired("street-number")
	resolveCmd.MarkFlagRequired("street")
	resolveCmd.MarkFlagRequired("lat")
	resolveCmd.MarkFlagRequired("lng")

	rootCmd.AddCommand(resolveCmd)
}

// flagRecord rebuilds the geocoded record shape out of the flags; in
// the app this comes straight from the place-details API.
func flagRecord() address.Record {
	component := func(value string, types ...string) address.Component {
		return address.Component{LongName: value, ShortName: value, Types: types}
	}

	components := []address.Component{
		component(resolveFlags.streetNumber, "street_number"),
		component(resolveFlags.streetName, "route"),
	}
	if resolveFlags.unit != "" {
		components = append(components, component(resolveFlags.unit, "subpremise"))
	}
	if resolveFlags.suburb != "" {
		components = append(components, component(resolveFlags.suburb, "locality"))
	}
	if resolveFlags.state != "" {
		components = append(components, component(resolveFlags.state, "administrative_area_level_1"))
	}
	if resolveFlags.postcode != "" {
		components = append(components, component(resolveFlags.postcode, "postal_code"))
	}

	return address.Record{
		FormattedAddress: fmt.Sprintf(
			"%s %s, %s %s %s",
			resolveFlags.streetNumber, resolveFlags.streetName,
			resolveFlags.suburb, resolveFlags.state, resolveFlags.postcode,
		),
		Components: components,
		Location:   address.LatLng{Lat: resolveFlags.lat, Lng: resolveFlags.lng},
	}
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the next collection dates for an address.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		authority, err := resolver.ParseAuthorityID(resolveFlags.authority)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		rec := flagRecord()
		result, err := resolver.NewService().Resolve(ctx, authority, rec)
		if err != nil {
			kind, ok := waste.KindOf(err)
			if ok && kind == waste.KindAddressNotFound {
				fmt.Println("The council has no collection data for that address.")
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		t := newTable()
		t.AppendHeader(table.Row{"stream", "next collection"})
		for _, stream := range waste.Streams() {
			date := result.Date(stream)
			if date == nil {
				t.AppendRow(table.Row{stream.String(), "-"})
				continue
			}
			t.AppendRow(table.Row{stream.String(), date.Format("Mon, 2 Jan 2006")})
		}
		t.Render()

		store, err := resultlog.Open(logPath)
		if err != nil {
			slog.Warn("could not open resolution history", "err", err)
			return
		}
		defer store.Close()
		err = store.Record(ctx, string(authority), rec.FormattedAddress, result)
		if err != nil {
			slog.Warn("could not record resolution history", "err", err)
		}
	},
}
