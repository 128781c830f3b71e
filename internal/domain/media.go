package domain

// MediaType classifies an attachment.
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaDocument MediaType = "document"
	MediaGIF      MediaType = "gif"
	MediaSticker  MediaType = "sticker"
	MediaOther    MediaType = "other"
)

// Title returns the human-readable type name used in transcripts.
func (t MediaType) Title() string {
	switch t {
	case MediaImage:
		return "Image"
	case MediaVideo:
		return "Video"
	case MediaAudio:
		return "Audio"
	case MediaDocument:
		return "Document"
	case MediaGIF:
		return "GIF"
	case MediaSticker:
		return "Sticker"
	default:
		return "Media"
	}
}

// Glyph returns the symbol shown in front of a media row.
func (t MediaType) Glyph() string {
	switch t {
	case MediaImage:
		return "🖼️"
	case MediaVideo:
		return "🎥"
	case MediaAudio:
		return "🎵"
	case MediaDocument:
		return "📄"
	case MediaGIF:
		return "🎞️"
	case MediaSticker:
		return "🏷️"
	default:
		return "📎"
	}
}

// MediaRecord is a raw media row. RelPath is filled in by whoever copied the
// file next to the transcript; it stays empty when nothing was copied.
type MediaRecord struct {
	ID       int64  `json:"id"`
	TypeCode int    `json:"typeCode"`
	Filename string `json:"filename,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Caption  string `json:"caption,omitempty"`
	RelPath  string `json:"relPath,omitempty"`
}

// MediaAttachment is a resolved, display-ready media reference.
type MediaAttachment struct {
	Type     MediaType `json:"type"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	SizeText string    `json:"sizeText"`
	Caption  string    `json:"caption,omitempty"`
	RelPath  string    `json:"relPath,omitempty"`
}
