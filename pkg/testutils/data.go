package testutils

import (
	"github.com/brianvoe/gofakeit/v6"
)

const NERText = "Joko Widodo adalah presiden dari Partai PDI-Perjuangan."

const SentimentText = "Aku suka banget sama ini. Cuma ini cleanser yang cocok buat aku. Very recommended!"

var knownEntities = []string{"Joko Widodo", "Jakarta", "PDI-Perjuangan", "Indonesia", "Bandung"}

// FakeTexts returns n generated texts, reproducible for a given seed. Every
// other text mentions entities the bundled recognizer knows.
func FakeTexts(seed int64, n int) []string {
	faker := gofakeit.New(seed)
	texts := make([]string, n)
	for i := range texts {
		text := faker.Sentence(faker.Number(3, 20))
		if i%2 == 0 {
			text = faker.RandomString(knownEntities) + " " + text + " " + faker.RandomString(knownEntities) + "."
		}
		texts[i] = text
	}
	return texts
}
