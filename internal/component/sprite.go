package component

// Glyph is a bit mask describing how a unit is drawn.
type Glyph uint8

const (
	GlyphNPC Glyph = 1 << iota
	GlyphHero
	GlyphMonster
	GlyphMoving
	GlyphWounded
	GlyphDead
)

type Sprite struct {
	Glyph Glyph
}

// Rune picks the character a text renderer would print.
func (g Glyph) Rune() rune {
	switch {
	case g&GlyphDead != 0:
		return 'x'
	case g&GlyphHero != 0:
		if g&GlyphWounded != 0 {
			return 'h'
		}
		return 'H'
	case g&GlyphMonster != 0:
		if g&GlyphWounded != 0 {
			return 'm'
		}
		return 'M'
	case g&GlyphNPC != 0:
		return 'n'
	}
	return '?'
}
