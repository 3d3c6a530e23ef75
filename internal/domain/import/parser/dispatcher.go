package parser

import (
	"fmt"
	"mime"
	"sort"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/locale"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
)

// supported lists the formats the dispatcher accepts, in display order.
var supported = []string{statement.FormatPDF, statement.FormatXLSX, statement.FormatXLS, statement.FormatCSV}

var mimeFormats = map[string]string{
	"application/pdf": statement.FormatPDF,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": statement.FormatXLSX,
	"application/vnd.ms-excel": statement.FormatXLS,
	"text/csv":                 statement.FormatCSV,
	"application/csv":          statement.FormatCSV,
}

// SupportedExtensions returns the accepted file extensions.
func SupportedExtensions() []string {
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}

// SupportedMIMETypes returns the upload MIME types that map to a supported format.
func SupportedMIMETypes() []string {
	out := make([]string, 0, len(mimeFormats))
	for m := range mimeFormats {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// FormatForMIME maps a Content-Type value, parameters allowed, to a format.
func FormatForMIME(contentType string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	f, ok := mimeFormats[mediaType]
	return f, ok
}

// MIMEType returns the canonical Content-Type for a supported format, or
// application/octet-stream.
func MIMEType(format string) string {
	switch format {
	case statement.FormatPDF:
		return "application/pdf"
	case statement.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case statement.FormatXLS:
		return "application/vnd.ms-excel"
	case statement.FormatCSV:
		return "text/csv"
	}
	return "application/octet-stream"
}

func isSupported(ext string) bool {
	for _, s := range supported {
		if s == ext {
			return true
		}
	}
	return false
}

// Dispatcher routes documents to the extractor registered for their extension.
type Dispatcher struct {
	extractors map[string]Extractor
	opts       Options
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(opts Options) *Dispatcher {
	return &Dispatcher{
		extractors: make(map[string]Extractor),
		opts:       opts.withDefaults(),
	}
}

// New creates a dispatcher with the CSV, Excel and PDF extractors registered.
func New(opts Options) *Dispatcher {
	d := NewDispatcher(opts)
	excel := NewExcelExtractor(d.opts)
	d.Register(statement.FormatCSV, NewCSVExtractor(d.opts))
	d.Register(statement.FormatXLSX, excel)
	d.Register(statement.FormatXLS, excel)
	d.Register(statement.FormatPDF, NewPDFExtractor(d.opts))
	return d
}

// Register binds an extractor to a format. It panics if the format is
// already registered.
func (d *Dispatcher) Register(format string, e Extractor) {
	if _, exists := d.extractors[format]; exists {
		panic(fmt.Sprintf("parser: extractor for %q already registered", format))
	}
	d.extractors[format] = e
}

// ParseFile parses content using the extractor for filename's extension.
// maxChars <= 0 selects statement.DefaultMaxChars.
func (d *Dispatcher) ParseFile(content []byte, filename string, maxChars int) statement.Result {
	return d.Parse(statement.Document{Content: content, Filename: filename}, maxChars)
}

// Parse is ParseFile over a Document.
func (d *Dispatcher) Parse(doc statement.Document, maxChars int) statement.Result {
	if maxChars <= 0 {
		maxChars = statement.DefaultMaxChars
	}

	ext := Extension(doc.Filename)
	meta := statement.Metadata{Format: ext, Filename: doc.Filename}

	if !isSupported(ext) {
		shown := ext
		if shown == "" {
			shown = "unknown"
		}
		msg := d.opts.Messages.Text(locale.UnsupportedFormat, "ext", shown)
		return d.opts.fail(statement.KindUnsupportedFormat, msg, fmt.Errorf("extension %q", shown), meta)
	}

	e, ok := d.extractors[ext]
	if !ok {
		msg := d.opts.Messages.Text(locale.MissingCapability, "reader", ext)
		return d.opts.fail(statement.KindMissingCapability, msg, fmt.Errorf("no extractor registered for %q", ext), meta)
	}

	res := e.Extract(doc, maxChars)
	if res.Success {
		d.opts.Observer.Observe(statement.Event{Kind: statement.EventParsed, Format: ext, Count: len(res.Transactions)})
	}
	return res
}
