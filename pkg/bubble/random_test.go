package bubble

import "testing"

// TestNewRandomDeterministic 相同种子序列相同
func TestNewRandomDeterministic(t *testing.T) {
	a, b := NewRandom(99), NewRandom(99)
	for i := 0; i < 100; i++ {
		x, y := a.UniformDiscrete(0, 1000), b.UniformDiscrete(0, 1000)
		if x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
}

// TestUniformDiscreteInclusive 闭区间且两端可达
func TestUniformDiscreteInclusive(t *testing.T) {
	sources := map[string]Random{
		"seeded":  NewRandom(3),
		"default": DefaultRandom(),
	}

	for name, rng := range sources {
		t.Run(name, func(t *testing.T) {
			seen := map[int]bool{}
			for i := 0; i < 2000; i++ {
				v := rng.UniformDiscrete(84, 98)
				if v < 84 || v > 98 {
					t.Fatalf("value %d out of [84, 98]", v)
				}
				seen[v] = true
			}
			if !seen[84] || !seen[98] {
				t.Errorf("endpoints not reached: 84=%v 98=%v", seen[84], seen[98])
			}
		})
	}
}

// TestUniformDiscreteEdgeCases 单点区间与反向区间
func TestUniformDiscreteEdgeCases(t *testing.T) {
	rng := NewRandom(5)
	for i := 0; i < 20; i++ {
		if v := rng.UniformDiscrete(0, 0); v != 0 {
			t.Fatalf("UniformDiscrete(0, 0) = %d", v)
		}
		if v := rng.UniformDiscrete(10, -10); v < -10 || v > 10 {
			t.Fatalf("UniformDiscrete(10, -10) = %d out of range", v)
		}
	}
}

// TestRandomFunc 函数适配器
func TestRandomFunc(t *testing.T) {
	var got []int
	f := RandomFunc(func(min, max int) int {
		got = append(got, min, max)
		return max
	})
	if v := f.UniformDiscrete(1, 2); v != 2 {
		t.Errorf("UniformDiscrete = %d, want 2", v)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("args = %v", got)
	}
}
