package reply

import (
	"math/rand"
	"sync"
	"time"
)

// Generator produce el texto de respuesta del asistente. Es puro: no recibe
// contexto de conversación y se invoca exactamente una vez por envío.
type Generator interface {
	Generate() string
}

var cannedResponses = []string{
	"Interesting! Tell me more.",
	"I'm not sure, but that sounds great!",
	"Hmm, what if we tried a different approach?",
	"I partially understood. Can you explain better?",
	"That makes sense! What else can you share?",
	"I'm learning from our conversation. Continue!",
	"Fascinating perspective! What do you think about...",
	"Let me think about that for a moment...",
}

// Canned elige una respuesta fija del pool usando la fuente de azar
// inyectada, para que los tests puedan fijarla y verificar determinismo.
type Canned struct {
	mu   sync.Mutex
	rng  *rand.Rand
	pool []string
}

// NewCanned crea un generador con la fuente dada; con nil usa una fuente
// sembrada por reloj.
func NewCanned(rng *rand.Rand) *Canned {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Canned{rng: rng, pool: cannedResponses}
}

func (g *Canned) Generate() string {
	// rand.Rand no es seguro para uso concurrente.
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pool[g.rng.Intn(len(g.pool))]
}
