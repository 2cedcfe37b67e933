package narrative

import "github.com/teranos/moodmap/catalog"

type phrases struct {
	one  string // %s is the label
	two  string // %s is the joined pair
	many string // three or more labels
	and  string

	severe   string
	positive string
	negative string
	mixed    string

	highEnergy string
	lowEnergy  string
	steady     string

	mayNeed string // needs closing, %s is the list
	deserve string
}

var templates = map[catalog.Lang]phrases{
	catalog.EN: {
		one:  "You're feeling %s.",
		two:  "You're feeling two things at once: %s.",
		many: "You're holding several feelings at once: %s.",
		and:  "and",

		severe:   "This sounds painful, and you deserve support right now.",
		positive: "These feelings carry a pleasant tone.",
		negative: "What you're feeling is heavy to carry, and it points to something meaningful.",
		mixed:    "You're holding pleasant and difficult feelings side by side, and together they point to something meaningful.",

		highEnergy: "There is a lot of energy in this; slowing your breath may help it settle.",
		lowEnergy:  "This feels low in energy, so be gentle with your pace.",
		steady:     "There is a steady, moderate energy here.",

		mayNeed: "You may need %s.",
		deserve: "You deserve %s.",
	},
	catalog.IT: {
		one:  "Stai provando %s.",
		two:  "Stai provando due emozioni insieme: %s.",
		many: "Stai vivendo più emozioni insieme: %s.",
		and:  "e",

		severe:   "Sembra qualcosa di doloroso, e meriti sostegno in questo momento.",
		positive: "Queste emozioni hanno un tono piacevole.",
		negative: "Ciò che senti è pesante da portare, e indica qualcosa di significativo.",
		mixed:    "Stai tenendo insieme emozioni piacevoli e difficili, e insieme indicano qualcosa di significativo.",

		highEnergy: "C'è molta energia in tutto questo; rallentare il respiro può aiutarla a calmarsi.",
		lowEnergy:  "Sembra un momento a bassa energia, quindi procedi con gentilezza.",
		steady:     "C'è un'energia costante e moderata.",

		mayNeed: "Potresti aver bisogno di %s.",
		deserve: "Meriti %s.",
	},
}

// curatedPair is an unordered pair of ids with a bespoke valence sentence.
type curatedPair struct {
	a, b string
	text catalog.Text
}

var curatedPairs = []curatedPair{
	{"joy", "gratitude", catalog.Text{
		EN: "Joy and gratitude often travel together; noticing what you have can deepen both.",
		IT: "Gioia e gratitudine spesso vanno insieme; notare ciò che hai può rafforzarle entrambe.",
	}},
	{"hope", "optimism", catalog.Text{
		EN: "Hope and optimism point you toward what could come next.",
		IT: "Speranza e ottimismo ti orientano verso ciò che potrebbe arrivare.",
	}},
	{"serenity", "gratitude", catalog.Text{
		EN: "Serenity and gratitude suggest a settled, appreciative moment.",
		IT: "Serenità e gratitudine suggeriscono un momento sereno e riconoscente.",
	}},
	{"love", "trust", catalog.Text{
		EN: "Love and trust together speak of a bond that feels safe.",
		IT: "Amore e fiducia insieme parlano di un legame che senti sicuro.",
	}},
}
