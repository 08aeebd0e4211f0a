package activitybot

import (
	"math"
	"strings"
)

// Persona is a fictional neighbor the bot posts as
type Persona struct {
	Name        string
	Initials    string
	Personality string
	Interests   []string
}

// AuthorID is the stable id used for every post by this persona
func (p Persona) AuthorID() string {
	return "bot_" + strings.ToLower(p.Initials)
}

var personas = []Persona{
	{Name: "Alex Chen", Initials: "AC", Personality: "coffee enthusiast, early riser", Interests: []string{"coffee", "morning", "study", "gym"}},
	{Name: "Maya Patel", Initials: "MP", Personality: "foodie, local explorer", Interests: []string{"food", "travel", "weekend", "hiking"}},
	{Name: "Jordan Kim", Initials: "JK", Personality: "fitness enthusiast, positive vibes", Interests: []string{"gym", "fitness", "morning", "music"}},
	{Name: "Sam Rodriguez", Initials: "SR", Personality: "student, night owl", Interests: []string{"study", "music", "library", "food"}},
	{Name: "Riley Thompson", Initials: "RT", Personality: "outdoor lover, weekend warrior", Interests: []string{"hiking", "weekend", "travel", "morning"}},
	{Name: "Taylor Wong", Initials: "TW", Personality: "social butterfly, event planner", Interests: []string{"weekend", "music", "food", "travel"}},
}

// Personas returns a copy of the built-in personas
func Personas() []Persona {
	out := make([]Persona, len(personas))
	copy(out, personas)
	return out
}

// fallbackInterest covers interests without templates ("fitness")
const fallbackInterest = "food"

var postTemplates = map[string][]string{
	"coffee": {
		"Just discovered this amazing coffee spot - their latte art is incredible! ☕ #coffee",
		"Early morning coffee run complete. Nothing beats starting the day right! #morning #coffee",
		"Anyone know a good place for cold brew around here? The weather is perfect for it #coffee",
		"That first sip of coffee hits different when you find the perfect spot #coffee #morning",
	},
	"food": {
		"Found this hidden gem for lunch today - the tacos are unreal! 🌮 #food",
		"Sunday brunch vibes! Anyone else trying the new place on Main Street? #food #weekend",
		"Late night food cravings hitting hard. Best spot for a quick bite? #food",
		"Home cooking experiment went surprisingly well! Might have to share the recipe #food",
	},
	"gym": {
		"Morning workout done! The gym was surprisingly empty today #gym #morning #fitness",
		"New PR on deadlifts! Feeling stronger every day 💪 #gym #fitness",
		"Anyone else notice the gym gets crazy busy around 6pm? #gym #fitness",
		"Post-workout smoothie is the best reward. What's your go-to flavor? #gym #fitness",
	},
	"study": {
		"Found the perfect study spot with great WiFi and minimal distractions #study #library",
		"Finals season is here! Anyone else camping out at the library? #study",
		"Study group session was actually productive today - rare win! #study",
		"Need to find a quiet place to focus. Coffee shop or library? #study",
	},
	"weekend": {
		"Saturday plans: sleep in, good coffee, maybe some exploring. Perfect weekend! #weekend",
		"Sunday vibes are hitting just right. What's everyone up to? #weekend",
		"Weekend farmers market run was worth it - fresh everything! #weekend #food",
		"Lazy Sunday afternoon calls for a good book and some sunshine #weekend",
	},
	"morning": {
		"Early bird gets the worm! Beautiful sunrise this morning 🌅 #morning",
		"Morning walk complete - nothing beats starting the day with fresh air #morning",
		"6am and already productive. Morning people unite! #morning",
		"Quiet morning moments before the world wakes up are the best #morning",
	},
	"music": {
		"Live music tonight was incredible! Local talent is seriously underrated #music",
		"Discovering new artists on my morning commute. Any recommendations? #music",
		"Nothing beats good music and good vibes on a Friday night #music #weekend",
		"Playlist for studying is finally perfect after months of tweaking #music #study",
	},
	"hiking": {
		"Trail was muddy but totally worth it for these views! 🥾 #hiking #weekend",
		"Morning hike complete - legs are tired but soul is happy #hiking #morning",
		"Found a new trail that's not crowded. Hidden gems everywhere! #hiking #travel",
		"Weekend adventure planning: which trail should we tackle next? #hiking #weekend",
	},
	"travel": {
		"Day trip was exactly what I needed. Sometimes you don't have to go far #travel #weekend",
		"Exploring the neighborhood like a tourist in my own city #travel",
		"Weekend road trip planning in progress. Who's got recommendations? #travel #weekend",
		"Local exploration beats vacation planning any day #travel",
	},
	"library": {
		"Library productivity mode: activated. Silent floor is my sanctuary #library #study",
		"Found the perfect corner table with natural light. Study goals! #library #study",
		"Library events are actually pretty cool. Who knew? #library",
		"Quiet afternoon at the library beats crowded coffee shops every time #library #study",
	},
}

var commentTemplates = []string{
	"Love this spot! Thanks for sharing",
	"Adding this to my list 📝",
	"Been meaning to try this place!",
	"Great recommendation!",
	"This looks amazing",
	"Perfect timing - was just looking for something like this",
	"Yes! Finally someone else who gets it",
	"Totally agree with this",
	"Same! Such a good find",
	"You're inspiring me to get out more",
	"This is exactly what I needed to see today",
	"Thanks for the motivation!",
}

var reactionEmojis = []string{"👍", "❤️", "😂", "🔥", "💯"}

var areas = []string{
	"Downtown",
	"Riverside",
	"University District",
	"Old Town",
	"Midtown",
	"The Heights",
	"Arts Quarter",
	"Market District",
}

// LocationName deterministically maps coordinates to a neighborhood name
func LocationName(latitude, longitude float64) string {
	idx := int(math.Mod(math.Abs(latitude*longitude)*1000, float64(len(areas))))
	return areas[idx]
}

// DefaultDailyQuestion is answered by the maintenance loop
const DefaultDailyQuestion = "What's your plan for today?"

var genericResponses = []string{
	"Great question! I've been wondering about this too",
	"This is exactly what I needed to think about today",
	"Love seeing questions that bring the community together",
	"Such a good conversation starter!",
}

func hasInterest(p Persona, interest string) bool {
	for _, i := range p.Interests {
		if i == interest {
			return true
		}
	}
	return false
}

// dailyAnswer picks a keyword-matched reply; generic is used when nothing matches
func dailyAnswer(p Persona, question, generic string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "coffee") || strings.Contains(q, "café"):
		if hasInterest(p, "coffee") {
			return "There's this little place on Main Street with the best espresso I've tried!"
		}
		return "I'm more of a tea person, but my friends love the café downtown"
	case strings.Contains(q, "saturday") || strings.Contains(q, "weekend"):
		if hasInterest(p, "hiking") {
			return "Planning a morning hike if the weather holds up!"
		}
		return "Probably catching up on some reading and maybe exploring the farmers market"
	case strings.Contains(q, "restaurant") || strings.Contains(q, "food"):
		return "The new Mediterranean place has been getting great reviews - might give it a try!"
	case strings.Contains(q, "gym") || strings.Contains(q, "workout"):
		if hasInterest(p, "gym") {
			return "Early morning is definitely the way to go - much less crowded"
		}
		return "I prefer outdoor activities myself, but the gym near the park seems popular"
	default:
		return generic
	}
}
