package reply

// Mock permite tests con una respuesta fija.
type Mock struct {
	Response string
	Calls    int
}

func (m *Mock) Generate() string {
	m.Calls++
	return m.Response
}
