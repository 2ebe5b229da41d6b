package calendar

import "strings"

// ParseQuickAdd reads the one-line entry syntax "title [HH:MM] [#tag ...]".
// A valid time token and #tags may appear anywhere; every other word is
// part of the title.
func ParseQuickAdd(line, date string) TaskInput {
	in := TaskInput{Date: date}

	var title []string
	for _, word := range strings.Fields(line) {
		switch {
		case strings.HasPrefix(word, "#") && len(word) > 1:
			in.Tags = append(in.Tags, word[1:])
		case in.Time == "" && ValidTime(word):
			in.Time = word
		default:
			title = append(title, word)
		}
	}

	in.Title = strings.Join(title, " ")
	in.Tags = NormalizeTags(in.Tags)
	return in
}
