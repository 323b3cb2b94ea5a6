package models

// ModifiedLayout is the timestamp layout used for FileRecord.Modified.
const ModifiedLayout = "2006-01-02 15:04:05"

// FileRecord represents one file stored on the upload volume.
type FileRecord struct {
	Name     string `json:"name" msgpack:"name"`
	Size     int64  `json:"size" msgpack:"size"`
	Modified string `json:"modified" msgpack:"modified"` // ModifiedLayout, server local time
}

// StoredFile describes the outcome of a successful save.
type StoredFile struct {
	Name string `json:"filename"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}
