package request

type UploadURL struct {
	FileType string `json:"fileType" binding:"required"`
	Folder   string `json:"folder" binding:"required"`
}

type DownloadURLs struct {
	Keys []string `json:"keys" binding:"required"`
}
