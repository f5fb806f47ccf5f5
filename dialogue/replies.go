package dialogue

import "fmt"

// Recommendation is an entry in the fixed movie pool.
type Recommendation struct {
	Title string
	Blurb string
}

// MoviePool is the fixed set of titles the movie branch picks from.
var MoviePool = []Recommendation{
	{"The Shawshank Redemption", "an inspiring drama about hope and friendship"},
	{"Inception", "a mind-bending sci-fi thriller with stunning visuals"},
	{"La La Land", "a warm musical about love, dreams, and second chances"},
	{"Spider-Man: Into the Spider-Verse", "a fun, stylish animated adventure"},
	{"Knives Out", "a clever, modern whodunit with sharp humor"},
}

const (
	GreetingReply   = "Hi! I'm good — how can I help?"
	PreferenceReply = "I don’t have personal tastes, but sushi and pizza are among the most popular foods worldwide. What about you?"
	RepeatReply     = "Sure—what else can I help with?"
)

var smallTalkReplies = []string{
	"I'm doing great, thanks for asking! How about you?",
	"I'm feeling good today and ready to chat — how are you doing?",
	"Pretty good! Always happy to talk with you.",
}

var smallTalkPhrases = []string{
	"how are you",
	"how’s it going",
	"how's it going",
	"how do you do",
	"what’s up",
	"what's up",
	"how have you been",
}

func timeReply(hhmm string) string {
	return fmt.Sprintf("The current time is %s.", hhmm)
}

func followupReply(title string) string {
	return fmt.Sprintf("I suggested “%s” because it’s widely praised for its storytelling and emotional impact. It’s an easy, high-quality pick for most moods.", title)
}

func movieReply(rec Recommendation) string {
	return fmt.Sprintf(`Try "%s" — %s.`, rec.Title, rec.Blurb)
}
