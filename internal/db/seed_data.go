package db

// Catalog seed data: case subgroups, occurrence probabilities and the
// default formulas shipped with the catalog.

var ollSubgroups = map[string][]int{
	"All Edges Oriented Correctly":     {21, 22, 23, 24, 25, 26, 27},
	"No Edges Oriented Correctly":      {1, 2, 3, 4, 17, 18, 19, 20},
	"T-Shapes":                         {33, 45},
	"Squares":                          {5, 6},
	"C-Shapes":                         {34, 46},
	"W-Shapes":                         {36, 38},
	"Corners Correct, Edges Flipped":   {28, 57},
	"P-Shapes":                         {31, 32, 43, 44},
	"I-Shapes":                         {51, 52, 55, 56},
	"Fish Shapes":                      {9, 10, 35, 37},
	"Knight Move Shapes":               {13, 14, 15, 16},
	"Awkward Shapes":                   {29, 30, 41, 42},
	"L-Shapes":                         {47, 48, 49, 50, 53, 54},
	"Lightning Bolts":                  {7, 8, 11, 12, 39, 40},
}

// Most OLL cases occur with probability 1/54; these are the exceptions.
var ollProbabilityOverrides = map[int]string{
	1:  "1/108",
	20: "1/216",
	21: "1/108",
	55: "1/108",
	56: "1/108",
	57: "1/108",
}

var pllProbabilityByNumber = map[int]string{
	1:  "1/18", // Aa
	2:  "1/18", // Ab
	3:  "1/36", // E
	4:  "1/18", // F
	5:  "1/12", // Ga
	6:  "1/12", // Gb
	7:  "1/12", // Gc
	8:  "1/12", // Gd
	9:  "1/72", // H
	10: "1/18", // Ja
	11: "1/18", // Jb
	12: "1/72", // Na
	13: "1/72", // Nb
	14: "1/18", // Ra
	15: "1/18", // Rb
	16: "1/12", // T
	17: "1/18", // Ua
	18: "1/18", // Ub
	19: "1/18", // V
	20: "1/18", // Y
	21: "1/36", // Z
}

var pllSubgroups = map[string][]int{
	"Edges Only":    {9, 17, 18, 21},
	"Corners Only":  {1, 2, 3},
	"Adjacent Swap": {4, 10, 11, 14, 15, 16},
	"Diagonal Swap": {12, 13, 19, 20},
	"G-Perms":       {5, 6, 7, 8},
}

// knownFormulas are the default formulas assigned to seeded cases. Cases
// without an entry start with an empty formula and expect a custom one.
var knownFormulas = map[string]string{
	"F2L_1":  "R U R' U'",
	"OLL_1":  "R U2 R2 F R F' U2 R' F R F'",
	"OLL_26": "R U2 R' U' R U' R'",
	"OLL_27": "R U R' U R U2 R'",
	"PLL_1":  "M2 U M U2 M' U M2",
	"PLL_2":  "M2 U' M U2 M' U' M2",
	"PLL_3":  "R' U R' d' R' F' R2 U' R' U R' F R F",
}

type referenceSeedStat struct {
	CaseName            string
	ProbabilityFraction string
	ProbabilityPercent  string
	StatesOutOf96       string
	RecognitionHint     string
}

type referenceSeedSet struct {
	SetCode string
	Title   string
	Items   []referenceSeedStat
}

var pllReferenceSets = []referenceSeedSet{
	{
		SetCode: "skip",
		Title:   "Skip",
		Items: []referenceSeedStat{
			{"PLL Skip", "1/72", "1.39%", "1", "Every piece is already in place."},
		},
	},
	{
		SetCode: "edges_only",
		Title:   "Edges Only",
		Items: []referenceSeedStat{
			{"Ua / Ub", "1/18 (each)", "5.56%", "4 + 4", "Three corners placed, three edges cycle."},
			{"H", "1/72", "1.39%", "1", "Opposite edges swap with each other."},
			{"Z", "1/36", "2.78%", "2", "Adjacent edges swap with each other."},
		},
	},
	{
		SetCode: "corners_only",
		Title:   "Corners Only",
		Items: []referenceSeedStat{
			{"Aa / Ab", "1/18 (each)", "5.56%", "4 + 4", "Three edges placed, three corners cycle."},
			{"E", "1/36", "2.78%", "2", "Diagonal corner swap without blocks."},
		},
	},
	{
		SetCode: "adjacent_swap",
		Title:   "Adjacent Swap",
		Items: []referenceSeedStat{
			{"Ja / Jb", "1/18 (each)", "5.56%", "4 + 4", "A solid 1x1x3 bar block."},
			{"T", "1/12", "8.33%", "8", "Two 1x1x2 blocks: eyes and a bar."},
			{"Ra / Rb", "1/18 (each)", "5.56%", "4 + 4", "A 1x1x2 block plus headlights."},
			{"F", "1/18", "5.56%", "4", "One long 1x1x3 block on a single side."},
		},
	},
	{
		SetCode: "diagonal_swap",
		Title:   "Diagonal Swap",
		Items: []referenceSeedStat{
			{"V", "1/18", "5.56%", "4", "A 2x2x1 square block."},
			{"Y", "1/18", "5.56%", "4", "Two 1x1x2 blocks at a right angle."},
			{"Na / Nb", "1/72 (each)", "1.39%", "1 + 1", "Two 1x1x3 blocks on opposite sides."},
		},
	},
	{
		SetCode: "g_perms",
		Title:   "G-Perms",
		Items: []referenceSeedStat{
			{"Ga / Gb / Gc / Gd", "1/12 (each)", "8.33%", "8 + 8 + 8 + 8", "A 1x1x2 block plus headlights on an adjacent face."},
		},
	},
}
