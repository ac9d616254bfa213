package preset

func init() {
	Register(Preset{
		Name:        "cubic",
		Source:      "z^3-1",
		Description: "cube roots of unity",
		Span:        "4",
	})
	Register(Preset{
		Name:        "quartic",
		Source:      "z^4-1",
		Description: "fourth roots of unity",
		Span:        "4",
	})
	Register(Preset{
		Name:        "quintic",
		Source:      "z^5-1",
		Description: "fifth roots of unity",
		Span:        "4",
	})
	Register(Preset{
		Name:        "cycle",
		Source:      "z^3-2z+2",
		Description: "has an attracting 2-cycle between 0 and 1",
		Span:        "4",
	})
	Register(Preset{
		Name:        "octic",
		Source:      "z^8+15z^4-16",
		Description: "eight roots on two circles",
		Span:        "5",
	})
	Register(Preset{
		Name:        "sextic",
		Source:      "z^6+z^3-1",
		Description: "roots of the golden-ratio polynomial in z^3",
		Span:        "3",
	})
}
