package claims

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

// MaxAttachmentSize is the largest supporting document accepted, in bytes.
const MaxAttachmentSize = 5 << 20

var attachmentTypes = []string{"pdf", "jpg", "jpeg", "png", "tif", "tiff", "doc", "docx", "xls", "xlsx", "ppt", "pptx"}

// Attachment is one supporting document.
type Attachment struct {
	ri.File
}

// Type returns the lower-cased file extension without the dot.
func (a Attachment) Type() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(a.Name), "."))
}

func (a Attachment) Validate() ri.Result {
	var c ri.Collector
	c.RequireString("file name", a.Name)
	if a.Name != "" && !slices.Contains(attachmentTypes, a.Type()) {
		c.Errorf("file type %q is not accepted", a.Type())
	}
	if len(a.Content) == 0 {
		c.Errorf("file %q is empty", a.Name)
	}
	if len(a.Content) > MaxAttachmentSize {
		c.Errorf("file %q is larger than %d MB", a.Name, MaxAttachmentSize>>20)
	}
	return c.Result()
}

func (a Attachment) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(a, verify, func() (map[string]any, error) {
		return map[string]any{
			"fileName":       ri.NonEmpty(a.Name),
			"fileSize":       strconv.Itoa(len(a.Content)),
			"fileType":       ri.NonEmpty(a.Type()),
			"attachmentByte": a.Encoded(),
		}, nil
	})
}

// UploadDocumentInfo attaches supporting documents to a claim.
type UploadDocumentInfo struct {
	NRIC        string       `json:"nric"`
	Attachments []Attachment `json:"attachments"`
}

// AddAttachment appends a copy of a.
func (u *UploadDocumentInfo) AddAttachment(a Attachment) {
	a.File = *a.File.Clone()
	u.Attachments = append(u.Attachments, a)
}

func (u UploadDocumentInfo) Validate() ri.Result {
	var c ri.Collector
	c.RequireString("NRIC", u.NRIC)
	c.NRIC("NRIC", u.NRIC)
	c.Require("at least one attachment", len(u.Attachments) > 0)
	for i, a := range u.Attachments {
		c.Nest(fmt.Sprintf("Attachment %d", i+1), a.Validate())
	}
	return c.Result()
}

func (u UploadDocumentInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(u, verify, func() (map[string]any, error) {
		attachments, err := ri.Children(u.Attachments)
		if err != nil {
			return nil, fmt.Errorf("attachments: %w", err)
		}
		return map[string]any{
			"nric":        ri.NonEmpty(u.NRIC),
			"attachments": attachments,
		}, nil
	})
}
