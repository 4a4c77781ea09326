package plinko

// Rows 合法的行数
var Rows = []int{8, 12, 16}

// Risks 合法的风险档位
var Risks = []string{"low", "medium", "high"}

// Multipliers 赔率表，按行数和风险档位索引，每行 rows+1 个槽位。
// 数值与前端的槽位展示一一对应，改动必须两边同步。
var Multipliers = map[int]map[string][]float64{
	8: {
		"low":    {5.6, 2.1, 1.1, 1, 0.5, 1, 1.1, 2.1, 5.6},
		"medium": {13, 3, 1.3, 0.7, 0.4, 0.7, 1.3, 3, 13},
		"high":   {29, 4, 1.5, 0.3, 0.2, 0.3, 1.5, 4, 29},
	},
	12: {
		"low":    {10, 3, 1.6, 1.4, 1.1, 1, 0.5, 1, 1.1, 1.4, 1.6, 3, 10},
		"medium": {18, 4, 1.9, 1.4, 1.1, 1, 0.5, 1, 1.1, 1.4, 1.9, 4, 18},
		"high":   {43, 7, 2, 1.6, 1.2, 1, 0.3, 1, 1.2, 1.6, 2, 7, 43},
	},
	16: {
		"low":    {16, 9, 2, 1.4, 1.4, 1.2, 1.1, 1, 0.5, 1, 1.1, 1.2, 1.4, 1.4, 2, 9, 16},
		"medium": {33, 11, 3, 2, 1.5, 1.3, 1.1, 1, 0.7, 1, 1.1, 1.3, 1.5, 2, 3, 11, 33},
		"high":   {110, 41, 10, 5, 3, 1.5, 1, 0.5, 0.3, 0.5, 1, 1.5, 3, 5, 10, 41, 110},
	},
}

// ValidRows 检查行数是否合法
func ValidRows(rows int) bool {
	_, ok := Multipliers[rows]
	return ok
}

// ValidRisk 检查风险档位是否合法
func ValidRisk(risk string) bool {
	for _, r := range Risks {
		if r == risk {
			return true
		}
	}
	return false
}
