// Package media turns raw media rows into display-ready attachment
// descriptors. It never touches the filesystem.
package media

import (
	"fmt"
	"path"
	"strings"

	"github.com/soyeahso/chatexport/internal/domain"
)

// Store type codes.
const (
	CodeImage    = 1
	CodeVideo    = 2
	CodeAudio    = 3
	CodeDocument = 9
	CodeGIF      = 13
	CodeSticker  = 14
)

// TypeFromCode maps a store type code to a MediaType. Unknown codes map to
// MediaOther.
func TypeFromCode(code int) domain.MediaType {
	switch code {
	case CodeImage:
		return domain.MediaImage
	case CodeVideo:
		return domain.MediaVideo
	case CodeAudio:
		return domain.MediaAudio
	case CodeDocument:
		return domain.MediaDocument
	case CodeGIF:
		return domain.MediaGIF
	case CodeSticker:
		return domain.MediaSticker
	default:
		return domain.MediaOther
	}
}

// synthesized file extensions for records that carry no name
var defaultExt = map[domain.MediaType]string{
	domain.MediaImage:   ".jpg",
	domain.MediaVideo:   ".mp4",
	domain.MediaAudio:   ".opus",
	domain.MediaGIF:     ".mp4",
	domain.MediaSticker: ".webp",
}

// Resolve builds the attachment for rec. A nil record resolves to nil.
func Resolve(rec *domain.MediaRecord) *domain.MediaAttachment {
	if rec == nil {
		return nil
	}
	typ := TypeFromCode(rec.TypeCode)

	size := rec.Size
	if size < 0 {
		size = 0
	}

	return &domain.MediaAttachment{
		Type:     typ,
		Name:     displayName(rec, typ),
		Size:     size,
		SizeText: FormatSize(size),
		Caption:  strings.TrimSpace(rec.Caption),
		RelPath:  rec.RelPath,
	}
}

func displayName(rec *domain.MediaRecord, typ domain.MediaType) string {
	for _, p := range []string{rec.Filename, rec.RelPath} {
		if name := baseName(p); name != "" {
			return name
		}
	}
	return fmt.Sprintf("media_%d%s", rec.ID, defaultExt[typ])
}

func baseName(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	if p == "" {
		return ""
	}
	name := path.Base(p)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

const (
	kib = 1024
	mib = 1024 * kib
)

// FormatSize renders a byte count with binary units and one decimal place.
// Tenths are rounded half up and a trailing ".0" is dropped, so 159744
// becomes "156 KB" and 1587 becomes "1.5 KB". Zero renders as "0 KB".
func FormatSize(n int64) string {
	if n <= 0 {
		return "0 KB"
	}
	if n < kib {
		return fmt.Sprintf("%d B", n)
	}
	if tenths := roundTenths(n, kib); tenths < 10*kib {
		return tenthsString(tenths) + " KB"
	}
	return tenthsString(roundTenths(n, mib)) + " MB"
}

// roundTenths divides before scaling so n*10 cannot overflow.
func roundTenths(n, unit int64) int64 {
	return n/unit*10 + (n%unit*10+unit/2)/unit
}

func tenthsString(t int64) string {
	if t%10 == 0 {
		return fmt.Sprintf("%d", t/10)
	}
	return fmt.Sprintf("%d.%d", t/10, t%10)
}
