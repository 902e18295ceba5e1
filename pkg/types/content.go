package types

import "encoding/json"

// Known content block type tags.
const (
	BlockTypeImage   = "image"
	BlockTypeVideo   = "video"
	BlockTypeOkVideo = "ok_video"
	BlockTypeAudio   = "audio_file"
	BlockTypeText    = "text"
	BlockTypeSmile   = "smile"
	BlockTypeLink    = "link"
	BlockTypeFile    = "file"
	BlockTypeList    = "list"
)

// ContentBlock is one raw, tagged unit of rich content as delivered by the
// platform. The Type discriminator decides which ContentItem variant the
// block maps to; the remaining fields stay as raw JSON until extraction.
type ContentBlock struct {
	Type string
	Raw  json.RawMessage
}

// UnmarshalJSON keeps the full raw block alongside its type tag. A block
// whose discriminator cannot be read is kept with an empty Type so that
// extraction can degrade it to Unknown instead of failing the whole
// containing sequence.
func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	b.Raw = append(b.Raw[:0], data...)

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		b.Type = ""
		return nil
	}
	b.Type = probe.Type
	return nil
}

// MarshalJSON writes back the original raw block.
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	if len(b.Raw) == 0 {
		return []byte("null"), nil
	}
	return b.Raw, nil
}

// ContentItem is a typed content variant extracted from a raw block.
// The set of implementations is closed: Image, Video, OkVideo, Audio, Text,
// Smile, Link, File, List, and the Unknown fallback.
type ContentItem interface {
	contentItem()
}

// Image is a picture with its URL and identifier.
type Image struct {
	URL string
	ID  string
}

// Video is a plainly hosted video with a direct URL.
type Video struct {
	URL string
}

// OkVideo is an externally hosted video; URL is the best-quality player URL.
type OkVideo struct {
	URL   string
	Title string
	VID   string
}

// Audio is an uploaded audio track.
type Audio struct {
	URL      string
	Title    string
	FileType string
	Size     uint64
}

// Text is a formatted text fragment.
type Text struct {
	Modificator string
	Content     string
}

// Smile is an inline emoticon with its rendition URLs.
type Smile struct {
	SmallURL   string
	MediumURL  string
	LargeURL   string
	Name       string
	IsAnimated bool
}

// Link is a hyperlink with display content.
type Link struct {
	Explicit bool
	Content  string
	URL      string
}

// File is a downloadable attachment.
type File struct {
	URL   string
	Title string
	Size  uint64
}

// List is a grouped structure of nested content items.
type List struct {
	Style string
	Items [][]ContentItem
}

// Unknown stands in for a block with an unrecognized tag or a recognized
// tag whose required fields are missing or malformed.
type Unknown struct{}

func (Image) contentItem()   {}
func (Video) contentItem()   {}
func (OkVideo) contentItem() {}
func (Audio) contentItem()   {}
func (Text) contentItem()    {}
func (Smile) contentItem()   {}
func (Link) contentItem()    {}
func (File) contentItem()    {}
func (List) contentItem()    {}
func (Unknown) contentItem() {}

// PlayerURL is one rendition of an externally hosted video.
type PlayerURL struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type imageBlock struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

type videoBlock struct {
	URL string `json:"url"`
}

type okVideoBlock struct {
	Title      string      `json:"title"`
	VID        string      `json:"vid"`
	PlayerURLs []PlayerURL `json:"playerUrls"`
}

type audioBlock struct {
	URL      string  `json:"url"`
	Title    string  `json:"title"`
	FileType *string `json:"fileType"`
	Size     uint64  `json:"size"`
}

type textBlock struct {
	Modificator string `json:"modificator"`
	Content     string `json:"content"`
}

type smileBlock struct {
	SmallURL   string `json:"smallUrl"`
	MediumURL  string `json:"mediumUrl"`
	LargeURL   string `json:"largeUrl"`
	Name       string `json:"name"`
	IsAnimated bool   `json:"isAnimated"`
}

type linkBlock struct {
	Explicit bool   `json:"explicit"`
	Content  string `json:"content"`
	URL      string `json:"url"`
}

type fileBlock struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Size  uint64 `json:"size"`
}

type listBlock struct {
	Style string     `json:"style"`
	Items []listItem `json:"items"`
}

type listItem struct {
	Data  []ContentBlock `json:"data"`
	Items []listItem     `json:"items"`
}

// ExtractContent converts an ordered sequence of raw content blocks into
// typed content items. The mapping is total and order-preserving: the result
// always has exactly one item per input block, with unrecognized tags and
// malformed blocks degrading to Unknown rather than aborting extraction.
func ExtractContent(blocks []ContentBlock) []ContentItem {
	items := make([]ContentItem, 0, len(blocks))
	for _, block := range blocks {
		items = append(items, extractBlock(block))
	}
	return items
}

// extractBlock is the single decoding boundary between raw tagged JSON and
// the typed union. Every failure path inside a block yields Unknown.
func extractBlock(block ContentBlock) ContentItem {
	switch block.Type {
	case BlockTypeImage:
		var v imageBlock
		if json.Unmarshal(block.Raw, &v) != nil || v.URL == "" {
			return Unknown{}
		}
		return Image{URL: v.URL, ID: v.ID}

	case BlockTypeVideo:
		var v videoBlock
		if json.Unmarshal(block.Raw, &v) != nil || v.URL == "" {
			return Unknown{}
		}
		return Video{URL: v.URL}

	case BlockTypeOkVideo:
		var v okVideoBlock
		if json.Unmarshal(block.Raw, &v) != nil {
			return Unknown{}
		}
		url, ok := pickBestPlayerURL(v.PlayerURLs)
		if !ok {
			return Unknown{}
		}
		return OkVideo{URL: url, Title: v.Title, VID: v.VID}

	case BlockTypeAudio, "audio":
		var v audioBlock
		if json.Unmarshal(block.Raw, &v) != nil || v.URL == "" {
			return Unknown{}
		}
		fileType := ""
		if v.FileType != nil {
			fileType = *v.FileType
		}
		return Audio{URL: v.URL, Title: v.Title, FileType: fileType, Size: v.Size}

	case BlockTypeText:
		var v textBlock
		if json.Unmarshal(block.Raw, &v) != nil {
			return Unknown{}
		}
		return Text{Modificator: v.Modificator, Content: v.Content}

	case BlockTypeSmile:
		var v smileBlock
		if json.Unmarshal(block.Raw, &v) != nil {
			return Unknown{}
		}
		return Smile{
			SmallURL:   v.SmallURL,
			MediumURL:  v.MediumURL,
			LargeURL:   v.LargeURL,
			Name:       v.Name,
			IsAnimated: v.IsAnimated,
		}

	case BlockTypeLink:
		var v linkBlock
		if json.Unmarshal(block.Raw, &v) != nil || v.URL == "" {
			return Unknown{}
		}
		return Link{Explicit: v.Explicit, Content: v.Content, URL: v.URL}

	case BlockTypeFile:
		var v fileBlock
		if json.Unmarshal(block.Raw, &v) != nil || v.URL == "" {
			return Unknown{}
		}
		return File{URL: v.URL, Title: v.Title, Size: v.Size}

	case BlockTypeList:
		var v listBlock
		if json.Unmarshal(block.Raw, &v) != nil {
			return Unknown{}
		}
		return extractList(v)

	default:
		return Unknown{}
	}
}

// extractList flattens the platform's nested list structure into item groups,
// keeping one group per top-level list entry. Entries that themselves carry
// sub-lists contribute nested List items inside their group, mirroring the
// wire structure.
func extractList(v listBlock) List {
	groups := make([][]ContentItem, 0, len(v.Items))
	for _, entry := range v.Items {
		group := make([]ContentItem, 0, len(entry.Data))
		for _, block := range entry.Data {
			group = append(group, extractBlock(block))
		}
		for _, nested := range entry.Items {
			sub := make([]ContentItem, 0, len(nested.Data))
			for _, block := range nested.Data {
				sub = append(sub, extractBlock(block))
			}
			if len(sub) > 0 {
				group = append(group, List{Style: v.Style, Items: [][]ContentItem{sub}})
			}
		}
		groups = append(groups, group)
	}
	return List{Style: v.Style, Items: groups}
}

// playerURLPriority orders video renditions from best to worst quality.
var playerURLPriority = []string{"ultra_hd", "full_hd", "high", "medium", "low"}

// pickBestPlayerURL selects the highest-priority non-empty rendition URL,
// falling back to the first non-empty URL of any type.
func pickBestPlayerURL(urls []PlayerURL) (string, bool) {
	for _, pref := range playerURLPriority {
		for _, pu := range urls {
			if pu.Type == pref && pu.URL != "" {
				return pu.URL, true
			}
		}
	}
	for _, pu := range urls {
		if pu.URL != "" {
			return pu.URL, true
		}
	}
	return "", false
}
