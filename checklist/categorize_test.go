package checklist

import (
	"strings"
	"testing"

	"github.com/mbolis/os-portal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	photoURL    = "https://storage.example.com/forms/answers/" + strings.Repeat("f", 20) + ".jpg"
	videoURL    = "https://storage.example.com/forms/answers/" + strings.Repeat("v", 20) + ".mp4"
	observation = "Equipamento instalado, porém o cliente pediu retorno na próxima semana."
)

func sampleForms() []model.Form {
	return []model.Form{
		{
			Answers: []model.Answer{
				{ID: "1", Answer: "SIM", FormQuestionID: "q1"},
				{ID: "2", Answer: photoURL, FormQuestionID: "q2"},
				{ID: "3", Answer: observation, FormQuestionID: "q3"},
			},
		},
		{
			Answers: []model.Answer{
				{ID: "4", Answer: "", FormQuestionID: "q4"},
				{ID: "5", Answer: videoURL, FormQuestionID: "q5"},
				{ID: "6", Answer: "42", FormQuestionID: "q6"},
				{ID: "7", Answer: photoURL + "?v=2", FormQuestionID: "q7"},
			},
		},
	}
}

func ids(answers []model.Answer) []string {
	out := []string{}
	for _, a := range answers {
		out = append(out, a.ID)
	}
	return out
}

func TestCategorize(t *testing.T) {
	c := Categorize(sampleForms())

	assert.Equal(t, []string{"1", "4", "6"}, ids(c.Standard))
	assert.Equal(t, []string{"2", "7"}, ids(c.Photos))
	assert.Equal(t, []string{"5"}, ids(c.Videos))
	assert.Equal(t, []string{"3"}, ids(c.Observations))
}

func TestCategorizeIsPartition(t *testing.T) {
	forms := sampleForms()
	c := Categorize(forms)
	input := Answers(forms)

	require.Equal(t, len(input), c.Len())

	seen := map[string]int{}
	for _, bucket := range [][]model.Answer{c.Standard, c.Photos, c.Videos, c.Observations} {
		for _, a := range bucket {
			seen[a.ID]++
		}
	}
	for _, a := range input {
		assert.Equal(t, 1, seen[a.ID], "answer %s", a.ID)
	}
}

func TestCategorizeEmpty(t *testing.T) {
	for name, forms := range map[string][]model.Form{
		"nil":        nil,
		"empty":      {},
		"no answers": {{Answers: nil}},
	} {
		t.Run(name, func(t *testing.T) {
			c := Categorize(forms)
			assert.NotNil(t, c.Standard)
			assert.NotNil(t, c.Photos)
			assert.NotNil(t, c.Videos)
			assert.NotNil(t, c.Observations)
			assert.Zero(t, c.Len())
		})
	}
}

func TestCategorizeMediaBeforeObservation(t *testing.T) {
	url := padURL(t, 60, ".png")
	require.True(t, IsImageURL(url))

	c := Categorize([]model.Form{{Answers: []model.Answer{{ID: "a", Answer: url}}}})
	assert.Len(t, c.Photos, 1)
	assert.Empty(t, c.Observations)
}

func TestCategorizeImageOnVideoHost(t *testing.T) {
	url := "https://vimeo.com/" + strings.Repeat("1", 40) + ".jpg"
	require.True(t, IsImageURL(url))
	require.True(t, IsVideoURL(url))

	c := Categorize([]model.Form{{Answers: []model.Answer{{ID: "a", Answer: url}}}})
	assert.Len(t, c.Photos, 1)
	assert.Empty(t, c.Videos)
	assert.Equal(t, 1, c.Len())
}

func TestCategorizeShortShareLinkIsStandard(t *testing.T) {
	c := Categorize([]model.Form{{Answers: []model.Answer{{ID: "a", Answer: "https://youtu.be/abc123XYZ"}}}})
	assert.Empty(t, c.Videos)
	assert.Equal(t, []string{"a"}, ids(c.Standard))
}
