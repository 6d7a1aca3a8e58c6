package checklist

import "github.com/mbolis/os-portal/model"

// Categorized partitions the answers of a visit into display buckets.
// Every answer lands in exactly one bucket.
type Categorized struct {
	Standard     []model.Answer `json:"standard"`
	Photos       []model.Answer `json:"photos"`
	Videos       []model.Answer `json:"videos"`
	Observations []model.Answer `json:"observations"`
}

func (c Categorized) Len() int {
	return len(c.Standard) + len(c.Photos) + len(c.Videos) + len(c.Observations)
}

// Answers flattens the answers of all forms, in form order.
func Answers(forms []model.Form) []model.Answer {
	answers := []model.Answer{}
	for _, f := range forms {
		answers = append(answers, f.Answers...)
	}
	return answers
}

// Categorize sorts every answer of forms into a bucket. Media comes first,
// then long observations, and whatever is left is standard.
func Categorize(forms []model.Form) Categorized {
	c := Categorized{
		Standard:     []model.Answer{},
		Photos:       []model.Answer{},
		Videos:       []model.Answer{},
		Observations: []model.Answer{},
	}

	for _, a := range Answers(forms) {
		// a video-host link ending in an image extension matches both
		// patterns; photos win
		switch {
		case IsImageURL(a.Answer):
			c.Photos = append(c.Photos, a)
		case IsVideoURL(a.Answer):
			c.Videos = append(c.Videos, a)
		case IsLongObservation(a.Answer):
			c.Observations = append(c.Observations, a)
		default:
			c.Standard = append(c.Standard, a)
		}
	}

	return c
}
