package board

import (
	"github.com/samber/lo"

	"github.com/devaloi/msgboard/internal/domain"
)

// Renderer draws board state. It is only ever called on the UI loop.
type Renderer interface {
	RenderList(rows []string)
	RenderComposer(state ComposerState)
}

// Rows projects a list to display rows: one row per message, order untouched.
func Rows(list []domain.Message) []string {
	return lo.Map(list, func(m domain.Message, _ int) string {
		return m.Text
	})
}

type nopRenderer struct{}

func (nopRenderer) RenderList([]string)          {}
func (nopRenderer) RenderComposer(ComposerState) {}
