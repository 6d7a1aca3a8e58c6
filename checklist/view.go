package checklist

import "github.com/mbolis/os-portal/model"

// View is everything derived from the forms of one visit.
type View struct {
	Answers Categorized
	Titles  TitleMap
}

func Build(forms []model.Form) View {
	return View{
		Answers: Categorize(forms),
		Titles:  BuildTitleMap(forms),
	}
}

// Card is an answer together with its display metadata.
type Card struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	Resolution
}

type Cards struct {
	Standard     []Card `json:"standard"`
	Photos       []Card `json:"photos"`
	Videos       []Card `json:"videos"`
	Observations []Card `json:"observations"`
}

type Counts struct {
	Standard     int `json:"standard"`
	Photos       int `json:"photos"`
	Videos       int `json:"videos"`
	Observations int `json:"observations"`
}

func (v View) Cards() Cards {
	return Cards{
		Standard:     v.cards(v.Answers.Standard),
		Photos:       v.cards(v.Answers.Photos),
		Videos:       v.cards(v.Answers.Videos),
		Observations: v.cards(v.Answers.Observations),
	}
}

func (v View) Counts() Counts {
	return Counts{
		Standard:     len(v.Answers.Standard),
		Photos:       len(v.Answers.Photos),
		Videos:       len(v.Answers.Videos),
		Observations: len(v.Answers.Observations),
	}
}

func (v View) cards(answers []model.Answer) []Card {
	cards := make([]Card, 0, len(answers))
	for _, a := range answers {
		cards = append(cards, Card{
			ID:         a.ID,
			QuestionID: a.FormQuestionID,
			Answer:     a.Answer,
			Resolution: Resolve(a, v.Titles),
		})
	}
	return cards
}
