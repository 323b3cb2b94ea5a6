package widget

import (
	"bytes"
	"html/template"
	"io"

	"github.com/volume-uploader/backend/internal/models"
)

// EmptyListText is shown when there are no files.
const EmptyListText = "No files uploaded yet"

// Row is one display line of the file list. Size is already formatted.
type Row struct {
	Name     string
	Size     string
	Modified string
}

// ListView is the rendered form of a file list: either the empty-state
// placeholder or rows in server order.
type ListView struct {
	Empty bool
	Rows  []Row
}

// BuildList derives display rows from server records without reordering.
func BuildList(files []models.FileRecord) ListView {
	if len(files) == 0 {
		return ListView{Empty: true}
	}
	rows := make([]Row, len(files))
	for i, f := range files {
		rows[i] = Row{
			Name:     f.Name,
			Size:     FormatKB(f.Size) + " KB",
			Modified: f.Modified,
		}
	}
	return ListView{Rows: rows}
}

var listTemplate = template.Must(template.New("files").Parse(
	`{{if .Empty}}<div class="empty-state"><p>{{.EmptyText}}</p></div>` +
		`{{else}}{{range .Rows}}<div class="file-item">` +
		`<div class="file-icon">&#128196;</div>` +
		`<div class="file-info">` +
		`<div class="file-name">{{.Name}}</div>` +
		`<div class="file-meta"><span>{{.Size}}</span><span>&bull;</span><span>{{.Modified}}</span></div>` +
		`</div></div>{{end}}{{end}}`))

// RenderListHTML writes the list as an HTML fragment. Every text field is
// escaped, so names such as "<img>" appear as text.
func RenderListHTML(w io.Writer, files []models.FileRecord) error {
	view := BuildList(files)
	return listTemplate.Execute(w, struct {
		ListView
		EmptyText string
	}{view, EmptyListText})
}

// ListHTML returns RenderListHTML's output for embedding in a page template.
func ListHTML(files []models.FileRecord) (template.HTML, error) {
	var buf bytes.Buffer
	if err := RenderListHTML(&buf, files); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
