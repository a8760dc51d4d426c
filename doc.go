// Package movierec 是一个基于物品协同过滤（Item-CF）的电影推荐引擎。
//
// 设计要点：
// - 离线训练：评分流 → 稀疏矩阵 → 物品近邻图 + 贝叶斯热门表，全量重建、原子发布
// - 在线服务：只读快照（atomic 指针切换），冷启动 / 降级路径显式打标
// - Pipeline-first: 个性化链路通过 Node 串联（Recall → Filter → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
package movierec

import "github.com/rushteam/movierec/pipeline"

// 轻量 facade：便于用户直接 import "movierec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
