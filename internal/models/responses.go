package models

// UploadResponse is the JSON body of POST /upload.
// Clients branch on Success only; the HTTP status is informational.
type UploadResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	Filename string `json:"filename,omitempty"`
	Path     string `json:"path,omitempty"`
}

// ListResponse is the body of GET /files.
type ListResponse struct {
	Success bool         `json:"success" msgpack:"success"`
	Files   []FileRecord `json:"files" msgpack:"files"`
	Error   string       `json:"error,omitempty" msgpack:"error,omitempty"`
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status           string `json:"status"` // "healthy", "degraded"
	VolumePath       string `json:"volume_path"`
	VolumeAccessible bool   `json:"volume_accessible"`
	Message          string `json:"message"`
}
