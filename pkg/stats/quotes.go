package stats

import "math/rand"

// Quotes are the motivational lines shown by grid quote and grid watch.
var Quotes = []string{
	"Small progress is still progress. Keep going!",
	"The expert in anything was once a beginner. You're on your way!",
	"Consistency beats intensity every time. One step at a time!",
	"Your future self will thank you for starting today.",
	"Growth happens outside your comfort zone. You're doing great!",
	"Every master was once a disaster. Keep learning!",
	"You don't have to be great to start, but you have to start to be great.",
	"The only bad workout is the one that didn't happen. Same with growth!",
	"Your journey is unique. Don't compare your chapter 1 to someone's chapter 20.",
	"Progress over perfection. Every entry counts!",
	"The hardest part is showing up. You're already here!",
	"One day or day one? You chose day one. Proud of you!",
	"Success is the sum of small efforts repeated daily.",
	"You're building habits that will shape your future. Keep stacking!",
	"The man who moves mountains begins by carrying small stones.",
	"Your potential is endless. Keep unlocking it!",
	"Every entry is a step toward your best self.",
	"Growth is never by mere chance; it's the result of forces working together.",
	"You're not just dreaming, you're doing. That's powerful!",
	"The only way to do great work is to love what you're doing. -Steve Jobs",
	"Inspiration comes from the most unexpected places.",
}

// Quote picks a quote using r, or the global source when r is nil.
func Quote(r *rand.Rand) string {
	if r == nil {
		return Quotes[rand.Intn(len(Quotes))]
	}
	return Quotes[r.Intn(len(Quotes))]
}
