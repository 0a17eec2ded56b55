// Package translit implements the transliteration capability: phonetic
// transcription and romanization for source-language display tokens.
//
// Lexicon entries win when they carry curated transcriptions; everything
// else falls back to a rule-based Thai character mapping so a token is never
// left without a pronunciation hint.
package translit

import (
	"context"
	"strings"

	"lexweave/internal/capability"
	"lexweave/internal/lexicon"
	"lexweave/internal/services"
)

// Service produces phonetic and romanized forms for source tokens.
type Service struct {
	index *lexicon.Index
}

// New creates the transliteration backend.
func New(index *lexicon.Index) *Service {
	return &Service{index: index}
}

// ID implements capability.Invoker.
func (s *Service) ID() capability.ID {
	return capability.Transliteration
}

// Invoke implements capability.Invoker.
func (s *Service) Invoke(ctx context.Context, req capability.Request) (capability.Response, error) {
	if err := ctx.Err(); err != nil {
		return capability.Response{}, err
	}

	var resp capability.Response
	for _, tok := range req.Source.Tokens {
		surface := strings.TrimSpace(tok.Surface)
		if surface == "" {
			return capability.Response{}, services.Wrap(services.ErrValidation, s.ID().String(), "invoke", "token surface is empty", nil)
		}

		out := capability.TokenOutput{Index: tok.Index}
		if s.index != nil {
			if entry, ok := s.index.Lookup(surface); ok {
				out.Phonetic = entry.Phonetic
				out.Romanization = entry.Romanization
			}
		}
		if out.Romanization == "" {
			out.Romanization = Romanize(surface)
		}
		if out.Romanization == "" {
			out.Romanization = surface
		}
		if out.Phonetic == "" {
			out.Phonetic = "/" + out.Romanization + "/"
		}
		resp.Source.Tokens = append(resp.Source.Tokens, out)
	}

	return resp, nil
}

// thaiRoman maps Thai characters to rough RTGS-style romanizations. Tone
// marks and length distinctions are intentionally dropped.
var thaiRoman = map[rune]string{
	'ก': "k", 'ข': "kh", 'ค': "kh", 'ฆ': "kh", 'ง': "ng",
	'จ': "ch", 'ฉ': "ch", 'ช': "ch", 'ซ': "s", 'ฌ': "ch",
	'ญ': "y", 'ฎ': "d", 'ฏ': "t", 'ฐ': "th", 'ฑ': "th",
	'ฒ': "th", 'ณ': "n", 'ด': "d", 'ต': "t", 'ถ': "th",
	'ท': "th", 'ธ': "th", 'น': "n", 'บ': "b", 'ป': "p",
	'ผ': "ph", 'ฝ': "f", 'พ': "ph", 'ฟ': "f", 'ภ': "ph",
	'ม': "m", 'ย': "y", 'ร': "r", 'ล': "l", 'ว': "w",
	'ศ': "s", 'ษ': "s", 'ส': "s", 'ห': "h", 'ฬ': "l",
	'อ': "o", 'ฮ': "h",
	'ะ': "a", 'ั': "a", 'า': "a", 'ำ': "am", 'ิ': "i",
	'ี': "i", 'ึ': "ue", 'ื': "ue", 'ุ': "u", 'ู': "u",
	'เ': "e", 'แ': "ae", 'โ': "o", 'ใ': "ai", 'ไ': "ai",
}

// Romanize applies the character table to a surface form. Characters the
// table does not cover (including non-Thai text) pass through unchanged.
func Romanize(surface string) string {
	var sb strings.Builder
	for _, r := range surface {
		if mapped, ok := thaiRoman[r]; ok {
			sb.WriteString(mapped)
			continue
		}
		// Tone and quiescence marks carry no romanized form.
		if r >= 0x0E47 && r <= 0x0E4E {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
