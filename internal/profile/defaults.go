package profile

import "time"

const (
	bubbleSize  = 60
	labelHeight = 24
	lineWidth   = 160
	lineHeight  = 24
)

func ms(f float64) time.Duration {
	return time.Duration(f * float64(time.Millisecond))
}

func bubblePhases(withLabel bool) []Phase {
	phases := []Phase{
		{Name: "grow", Duration: ms(300), Element: "bubble", Easing: "power1.inOut",
			Props: map[string]string{"width": "46", "height": "46", "backgroundColor": "rgba(96, 129, 238, 0.2)", "opacity": "1"}},
		{Name: "grow-border", Parent: "grow", Duration: ms(200), Element: "border", Easing: "power1.inOut",
			Props: map[string]string{"width": "46", "height": "46"}},

		{Name: "enlarge", Duration: ms(2000), Element: "bubble", Easing: "none",
			Props: map[string]string{
				"width": "60", "height": "60", "backgroundColor": "rgba(227, 0, 0, 0.7)",
				"boxShadow": "0px 0px 6.3px 1px rgba(255, 133, 133, 1), inset 0px 0px 4px 0px rgba(245, 12, 0, 1)",
			}},
		{Name: "enlarge-border", Parent: "enlarge", Duration: ms(1500), Element: "border", Easing: "none",
			Props: map[string]string{"width": "60", "height": "60", "borderColor": "rgba(245, 12, 0, 1)", "borderWidth": "2.6"}},
	}
	if withLabel {
		phases = append(phases, Phase{Name: "enlarge-label", Parent: "enlarge", Duration: ms(2000), Element: "label", Easing: "none",
			Props: map[string]string{"color": "rgba(245, 12, 0, 1)"}})
	}
	phases = append(phases,
		Phase{Name: "turbulence", Duration: ms(300), Element: "bubble", Easing: "none",
			Props: map[string]string{"filter": "url(#wavy-border)"}},
		Phase{Name: "turbulence-seed", Parent: "turbulence", Duration: ms(300), Element: "turbulence", Easing: "none",
			Props: map[string]string{"seed": "100", "repeat": "-1"}},

		Phase{Name: "explosion", Duration: ms(150), Element: "bubble", Easing: "none",
			Props: map[string]string{"opacity": "0"}},
		Phase{Name: "petals-open", Parent: "explosion", Duration: ms(100), Element: "petals", Easing: "none",
			Props: map[string]string{"scale": "0.8", "opacity": "0.6"}},
		Phase{Name: "petals-scatter", Parent: "explosion", Offset: ms(100), Duration: ms(100), Element: "petals", Easing: "none",
			Props: map[string]string{"scale": "1.2", "opacity": "0"}},
	)
	return phases
}

func swipePhases() []Phase {
	return []Phase{
		{Name: "appear", Duration: ms(300), Element: "line", Easing: "power1.inOut",
			Props: map[string]string{"opacity": "1"}},
		{Name: "appear-glow", Parent: "appear", Duration: ms(300), Element: "container",
			Props: map[string]string{"--shadow": "0px -4px 6px rgba(69, 194, 248, 1)"}},

		{Name: "color", Duration: ms(2400), Element: "line", Easing: "power1.inOut",
			Props: map[string]string{"--start": "rgba(248, 86, 58, 1)", "--mid": "rgba(248, 86, 58, 0.4)", "--end": "rgba(248, 86, 58, 0)"}},
		{Name: "color-glow", Parent: "color", Duration: ms(2400), Element: "container",
			Props: map[string]string{"--shadow": "0px -4px 6px rgba(238, 62, 31, 1)"}},

		{Name: "burst", Duration: ms(34), Element: "line",
			Props: map[string]string{"opacity": "0"}},
		{Name: "splash-in", Parent: "burst", Duration: ms(8.5), Element: "splash",
			Props: map[string]string{"opacity": "0.8"}},
		{Name: "wave-in", Parent: "burst", Duration: ms(8.5), Element: "wave",
			Props: map[string]string{"opacity": "0.5"}},
		{Name: "wave-out", Parent: "burst", Offset: ms(8.5), Duration: ms(8.5), Element: "wave",
			Props: map[string]string{"opacity": "0"}},
		{Name: "splash-out", Parent: "burst", Offset: ms(8.5), Duration: ms(8.5), Element: "splash",
			Props: map[string]string{"opacity": "0"}},
	}
}

func flourishPhases() []Phase {
	return []Phase{
		{Name: "pop", Duration: ms(150), Element: "bubble", Easing: "power2.out",
			Props: map[string]string{"scale": "1.3", "opacity": "0.9", "backgroundColor": "rgba(82, 214, 120, 0.8)"}},
		{Name: "pop-border", Parent: "pop", Duration: ms(150), Element: "border", Easing: "power2.out",
			Props: map[string]string{"borderColor": "rgba(82, 214, 120, 1)"}},
		{Name: "vanish", Duration: ms(150), Element: "bubble", Easing: "power2.in",
			Props: map[string]string{"scale": "0", "opacity": "0"}},
	}
}

// Default returns the built-in timing table.
func Default() *Table {
	return &Table{
		profiles: map[Kind]Profile{
			Tap:   {Kind: Tap, Width: bubbleSize, Height: bubbleSize, Phases: bubblePhases(false)},
			Hold:  {Kind: Hold, Width: bubbleSize, Height: bubbleSize + labelHeight, Phases: bubblePhases(true)},
			Swipe: {Kind: Swipe, Width: lineWidth, Height: lineHeight, Phases: swipePhases()},
		},
		flourish: Profile{Kind: Tap, Width: bubbleSize, Height: bubbleSize, Phases: flourishPhases()},
	}
}
