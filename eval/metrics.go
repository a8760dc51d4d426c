package eval

import "math"

// RecallAtK = |推荐 ∩ 相关| / |相关|。
// recommended 已按排名截断到前 K；relevant 为空时返回 0。
func RecallAtK(recommended []int64, relevant map[int64]struct{}) float64 {
	if len(relevant) == 0 {
		return 0
	}
	return float64(hits(recommended, relevant)) / float64(len(relevant))
}

// PrecisionAtK = |推荐 ∩ 相关| / K。
// 注意分母是 K 本身而不是实际推荐条数：推荐不满 K 条同样按 K 惩罚。
func PrecisionAtK(recommended []int64, relevant map[int64]struct{}, k int) float64 {
	if k <= 0 {
		return 0
	}
	return float64(hits(recommended, relevant)) / float64(k)
}

// NDCGAtK = DCG@K / IDCG@K。
// DCG@K = Σ_{i=1..K, 第 i 位命中} 1/log2(i+1)（i 从 1 开始计位）；
// IDCG@K 按 min(|relevant|, K) 个理想命中计算。
func NDCGAtK(recommended []int64, relevant map[int64]struct{}, k int) float64 {
	if len(relevant) == 0 || k <= 0 {
		return 0
	}

	var dcg float64
	for i, movieID := range recommended {
		if i >= k {
			break
		}
		if _, ok := relevant[movieID]; ok {
			dcg += 1.0 / math.Log2(float64(i)+2)
		}
	}

	ideal := len(relevant)
	if ideal > k {
		ideal = k
	}
	var idcg float64
	for i := 0; i < ideal; i++ {
		idcg += 1.0 / math.Log2(float64(i)+2)
	}
	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

func hits(recommended []int64, relevant map[int64]struct{}) int {
	n := 0
	for _, movieID := range recommended {
		if _, ok := relevant[movieID]; ok {
			n++
		}
	}
	return n
}
