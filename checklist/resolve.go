package checklist

import (
	"strings"

	"github.com/mbolis/os-portal/model"
)

const (
	// Unanswered is displayed in place of an empty answer.
	Unanswered = "*Não respondido*"

	radioQuestion = "radio_question"
	fallbackIDLen = 8
)

type Kind string

const (
	KindPhoto       Kind = "photo"
	KindVideo       Kind = "video"
	KindObservation Kind = "observation"
	KindYes         Kind = "yes"
	KindNo          Kind = "no"
	KindStandard    Kind = "standard"
	KindUnanswered  Kind = "unanswered"
)

// Source tells whether a resolved value came from the question definitions
// or from a fallback.
type Source string

const (
	SourceResolved Source = "resolved"
	SourceFallback Source = "fallback"
	// SourceRaw marks answer text used as stored, with no lookup attempted.
	SourceRaw Source = "raw"
)

// TitleMap indexes question definitions by segment id.
type TitleMap map[string]model.Segment

// BuildTitleMap indexes the segments of every form template. A segment id
// repeated across forms keeps the last definition seen.
func BuildTitleMap(forms []model.Form) TitleMap {
	titles := TitleMap{}
	for _, f := range forms {
		for _, s := range f.Template.Segments {
			titles[s.ID] = s
		}
	}
	return titles
}

// Resolution is the display metadata of one answer.
type Resolution struct {
	Title       string `json:"title"`
	TitleSource Source `json:"title_source"`
	Text        string `json:"text"`
	TextSource  Source `json:"text_source"`
	Kind        Kind   `json:"kind"`
}

// Resolve computes the title, display text and kind of an answer. It never
// fails: unknown questions, unknown options and empty answers all have
// fallback values.
func Resolve(answer model.Answer, titles TitleMap) Resolution {
	res := Resolution{TextSource: SourceRaw}

	segment, found := titles[answer.FormQuestionID]

	raw := strings.TrimSpace(answer.Answer)
	unanswered := raw == ""
	if unanswered {
		raw = Unanswered
	} else if found && segment.Type == radioQuestion {
		res.TextSource = SourceFallback
		for _, opt := range segment.Options {
			if opt.ID == raw {
				raw = opt.Label
				res.TextSource = SourceResolved
				break
			}
		}
	}

	switch {
	case !found:
		res.Title = fallbackTitle(answer.FormQuestionID)
		res.TitleSource = SourceFallback
	case segment.Title == "":
		res.Title = raw
		res.TitleSource = SourceFallback
	default:
		res.Title = segment.Title
		res.TitleSource = SourceResolved
	}

	res.Kind = kindOf(raw, unanswered)
	res.Text = raw
	if res.Kind == KindYes || res.Kind == KindNo {
		res.Text = strings.ToUpper(raw)
	}
	return res
}

func kindOf(text string, unanswered bool) Kind {
	if unanswered {
		return KindUnanswered
	}

	switch {
	case IsImageURL(text):
		return KindPhoto
	case IsVideoURL(text):
		return KindVideo
	}

	switch strings.ToUpper(text) {
	case "SIM":
		return KindYes
	case "NÃO", "NAO":
		return KindNo
	}

	if IsLongObservation(text) {
		return KindObservation
	}
	return KindStandard
}

func fallbackTitle(questionID string) string {
	prefix := []rune(questionID)
	if len(prefix) > fallbackIDLen {
		prefix = prefix[:fallbackIDLen]
	}
	return "Pergunta ID: " + string(prefix) + "..."
}
