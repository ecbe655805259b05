package engine

// scriptedPolicy feeds predetermined values to every random decision so
// tests can force balks, patience rolls and dish choices.
type scriptedPolicy struct {
	rolls    []float64
	uniforms []float64
	ints     []int
}

func (p *scriptedPolicy) Roll() float64 {
	if len(p.rolls) == 0 {
		return 0.99
	}
	v := p.rolls[0]
	p.rolls = p.rolls[1:]
	return v
}

func (p *scriptedPolicy) Uniform(lo, hi float64) float64 {
	if len(p.uniforms) == 0 {
		return (lo + hi) / 2
	}
	v := p.uniforms[0]
	p.uniforms = p.uniforms[1:]
	return v
}

func (p *scriptedPolicy) Intn(n int) int {
	if len(p.ints) == 0 {
		return 0
	}
	v := p.ints[0]
	p.ints = p.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}
