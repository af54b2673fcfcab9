package mock

import "github.com/fwojciec/mdclip"

var _ mdclip.HeadingIndex = (*HeadingIndex)(nil)

// HeadingIndex is a mock implementation of mdclip.HeadingIndex.
type HeadingIndex struct {
	HeadingsFn func(markdown string) ([]mdclip.Heading, error)
}

func (h *HeadingIndex) Headings(markdown string) ([]mdclip.Heading, error) {
	return h.HeadingsFn(markdown)
}
