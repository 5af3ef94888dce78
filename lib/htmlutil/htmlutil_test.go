package htmlutil

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(
		"<div class=\"cell\">\n  <span>24</span>\n\t<b>  July </b>\n</div>",
	))
	require.NoError(t, err)

	require.Equal(t, "24 July", CleanText(doc.Find(".cell")))
	require.Empty(t, CleanText(doc.Find(".missing")))
}
