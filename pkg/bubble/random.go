package bubble

import (
	"math/rand/v2"
	"sync"
)

// Random 均匀离散随机数源
type Random interface {
	// UniformDiscrete 返回 [min, max] 闭区间内的均匀随机整数
	UniformDiscrete(min, max int) int
}

// RandomFunc 函数适配器
type RandomFunc func(min, max int) int

// UniformDiscrete implements Random.
func (f RandomFunc) UniformDiscrete(min, max int) int {
	return f(min, max)
}

// DefaultRandom 使用全局自动播种的随机源，可并发调用
func DefaultRandom() Random {
	return RandomFunc(func(min, max int) int {
		return uniformDiscrete(rand.IntN, min, max)
	})
}

// NewRandom 创建确定性随机源，相同种子产生相同序列
func NewRandom(seed uint64) Random {
	return &seededRandom{
		r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

type seededRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *seededRandom) UniformDiscrete(min, max int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uniformDiscrete(s.r.IntN, min, max)
}

func uniformDiscrete(intN func(int) int, min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + intN(max-min+1)
}
