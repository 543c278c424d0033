package response

import (
	"github.com/snapnutrient/snapnutrient/domain"
)

type UploadTicket struct {
	URL string `json:"uploadUrl"`
	Key string `json:"key"`
}

func NewUploadTicketFromDomain(t domain.UploadTicket) UploadTicket {
	return UploadTicket{URL: t.URL, Key: t.Key}
}

// DownloadURLs maps object keys to signed read URLs. Keys that could not be
// signed are simply absent.
type DownloadURLs struct {
	URLs map[string]string `json:"urls"`
}
