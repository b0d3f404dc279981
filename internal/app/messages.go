package app

import "github.com/pdiddy/docsend-scraper/internal/scraperapi"

// User-facing messages.
const (
	MsgMissingURL     = "Please enter a DocSend URL"
	MsgBusy           = "Another request is still in progress. Please wait for it to finish."
	MsgScrapeSuccess  = "Presentation scraped successfully!"
	MsgScrapeFailed   = "Failed to scrape presentation. Please check the URL and try again."
	MsgFetchFailed    = "Failed to fetch presentations."
	MsgConnectivity   = "Unable to connect to the scraper service. Please try again later."
	MsgConvertSuccess = "PDF downloaded successfully!"
	MsgConvertTimeout = "PDF conversion is taking longer than expected. Please try again in a few minutes."
	MsgConvertFailed  = "Failed to convert presentation to PDF."

	PlaceholderEmpty   = "No presentations yet. Submit a DocSend URL above to get started."
	PlaceholderNoMatch = "No presentations match your search."
)

// describe turns an operation failure into the message shown to the user:
// the server's own message when it sent one, the connectivity message when
// the service was unreachable, and fallback otherwise.
func describe(err error, fallback string) string {
	if msg := scraperapi.ServerMessage(err); msg != "" {
		return msg
	}
	if scraperapi.KindOf(err) == scraperapi.KindConnectivity {
		return MsgConnectivity
	}
	return fallback
}
