package api

import "encoding/json"

// Page is the backend's pagination envelope. The backend is the sole source
// of truth for totals; the client passes page/size/sort through verbatim and
// renders whatever comes back.
type Page[T any] struct {
	Content       []T
	TotalElements int64
	TotalPages    int
	Number        int
	Size          int
}

// UnmarshalJSON accepts both index spellings the backend uses: most
// resources send "page", kardex sends Spring's "number".
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Content       []T   `json:"content"`
		TotalElements int64 `json:"totalElements"`
		TotalPages    int   `json:"totalPages"`
		Size          int   `json:"size"`
		Page          *int  `json:"page"`
		Number        *int  `json:"number"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	p.Content = envelope.Content
	p.TotalElements = envelope.TotalElements
	p.TotalPages = envelope.TotalPages
	p.Size = envelope.Size
	switch {
	case envelope.Page != nil:
		p.Number = *envelope.Page
	case envelope.Number != nil:
		p.Number = *envelope.Number
	}
	return nil
}
