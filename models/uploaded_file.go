package models

// UploadedFile describes one image accepted by an upload request.
type UploadedFile struct {
	Name         string `json:"name"` // original filename as sent by the client
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	URL          string `json:"url"`          // public URL like /uploads/<serverFilename>
	LastModified int64  `json:"lastModified"` // unix milliseconds
}

// StoredFile is an image found in the upload directory.
type StoredFile struct {
	UploadedFile
	ServerFilename string `json:"serverFilename"` // on-disk name, used for deletion
}

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Files []UploadedFile `json:"files"`
}

// ListResponse is the body of an image listing.
type ListResponse struct {
	Files []StoredFile `json:"files"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}
