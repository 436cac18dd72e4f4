package domain

import "time"

type Note struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Subject     string   `json:"subject"`
	Tags        []string `json:"tags"`

	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
	FileSize     int64  `json:"fileSize"`
	FileType     string `json:"fileType"`
	FileData     string `json:"fileData,omitempty"` // Base64 payload when inline storage is active

	UploadedAt    time.Time `json:"uploadDate"`
	DownloadCount int64     `json:"downloadCount"`

	IsPasswordProtected bool   `json:"isPasswordProtected"`
	Password            string `json:"password,omitempty"` // Plain text, gate does exact match
	OwnerID             string `json:"ownerId,omitempty"`
}

type CreateNoteRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=2000"`
	Subject     string   `json:"subject"`
	Tags        []string `json:"tags"`
	Password    string   `json:"password"`
}

// UpdateNoteRequest carries a partial edit. Nil pointers leave the stored
// field untouched. Disabling protection does not clear a stored password;
// re-enabling it without a new password reuses the old one.
type UpdateNoteRequest struct {
	Title               *string   `json:"title"`
	Description         *string   `json:"description"`
	Subject             *string   `json:"subject"`
	Tags                *[]string `json:"tags"`
	IsPasswordProtected *bool     `json:"isPasswordProtected"`
	Password            *string   `json:"password"`
}

type NoteResponse struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Subject             string    `json:"subject"`
	Tags                []string  `json:"tags"`
	OriginalName        string    `json:"originalname"`
	FileSize            int64     `json:"fileSize"`
	FileType            string    `json:"fileType"`
	UploadedAt          time.Time `json:"uploadDate"`
	DownloadCount       int64     `json:"downloadCount"`
	IsPasswordProtected bool      `json:"isPasswordProtected"`
	OwnerID             string    `json:"ownerId,omitempty"`
}

func (n *Note) Response() *NoteResponse {
	return &NoteResponse{
		ID:                  n.ID,
		Title:               n.Title,
		Description:         n.Description,
		Subject:             n.Subject,
		Tags:                n.Tags,
		OriginalName:        n.OriginalName,
		FileSize:            n.FileSize,
		FileType:            n.FileType,
		UploadedAt:          n.UploadedAt,
		DownloadCount:       n.DownloadCount,
		IsPasswordProtected: n.IsPasswordProtected,
		OwnerID:             n.OwnerID,
	}
}

func NoteResponses(notes []*Note) []*NoteResponse {
	responses := make([]*NoteResponse, 0, len(notes))
	for _, n := range notes {
		responses = append(responses, n.Response())
	}
	return responses
}
