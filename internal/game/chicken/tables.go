package chicken

import (
	"fmt"
	"math"
)

// RTP 返奖率常量，过关游戏的赔率曲线由它和生存概率唯一决定
const RTP = 96

// fieldSize 抽样空间大小：25个槽位中有 factor 个是输
const fieldSize = 25

// Difficulty 难度参数
type Difficulty struct {
	Factor    int // 风险因子（25个槽位中输的数量）
	MaxRounds int // 最大回合数
}

// Difficulties 难度表
var Difficulties = map[string]Difficulty{
	"easy":   {Factor: 1, MaxRounds: 24},
	"medium": {Factor: 3, MaxRounds: 22},
	"hard":   {Factor: 5, MaxRounds: 20},
	"expert": {Factor: 10, MaxRounds: 15},
}

// Survival 第 round 回合的生存概率。
// 不放回抽样：每过一关从剩余槽位中再抽一次。
func Survival(round, factor int) float64 {
	n := 1.0
	for i := 0; i < round; i++ {
		n *= float64(fieldSize-factor-i) / float64(fieldSize-i)
	}
	return n
}

// WinPercentage 第 round 回合的胜率，保留4位小数的字符串
func WinPercentage(round, factor int) string {
	return fmt.Sprintf("%.4f", Survival(round, factor)*100)
}

// Multiplier 第 round 回合的累计倍数，向下取整到2位小数。
// 取整方式必须和客户端展示保持一致。
func Multiplier(round, factor int) float64 {
	survival := Survival(round, factor) * 100
	mult := RTP / survival
	return math.Floor(mult*100) / 100
}
