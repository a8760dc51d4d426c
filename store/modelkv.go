package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rushteam/movierec/core"
)

// ModelKV 把任意 core.KeyValueStore 适配成 core.ModelStore，
// 承载训练产物的发布/加载契约。
//
// Key 布局（prefix 默认 "reco:model"）：
//
//	{prefix}:current                  -> 当前版本号（指针）
//	{prefix}:{version}:meta           -> {"version":..,"trained_at":..}
//	{prefix}:{version}:neighbors      -> 近邻图 JSON
//	{prefix}:{version}:popularity     -> 热门表 JSON
//	{prefix}:{version}:rank           -> 热门 zset（可选，供 recall.Popularity 直接 ZRange）
//
// all-or-nothing 语义靠写入顺序保证：所有产物先写进新版本前缀下，
// 指针 key 最后切换。任何一步失败时指针不动，读方继续看到上一个
// 完整版本；不存在近邻图与热门表版本错配的中间状态。
type ModelKV struct {
	kv     core.KeyValueStore
	prefix string
}

// NewModelKV 构造 ModelKV。prefix 为空时使用 "reco:model"。
func NewModelKV(kv core.KeyValueStore, prefix string) *ModelKV {
	if prefix == "" {
		prefix = "reco:model"
	}
	return &ModelKV{kv: kv, prefix: prefix}
}

type modelMeta struct {
	Version   string `json:"version"`
	TrainedAt int64  `json:"trained_at"`
}

// Publish 发布一个完整快照。指针切换前新版本对读方不可见。
func (s *ModelKV) Publish(ctx context.Context, model *Model) error {
	if model == nil || model.Version == "" {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInternalError,
			"store: model and version are required")
	}

	metaBytes, err := json.Marshal(modelMeta{Version: model.Version, TrainedAt: model.TrainedAt})
	if err != nil {
		return err
	}
	neighborBytes, err := json.Marshal(model.Neighbors)
	if err != nil {
		return err
	}
	popularityBytes, err := json.Marshal(model.Popularity)
	if err != nil {
		return err
	}

	kvs := map[string][]byte{
		s.key(model.Version, "meta"):       metaBytes,
		s.key(model.Version, "neighbors"):  neighborBytes,
		s.key(model.Version, "popularity"): popularityBytes,
	}
	if err := s.kv.BatchSet(ctx, kvs); err != nil {
		return err
	}

	// 热门 zset 是便捷读路径，不影响发布语义；不支持 ZAdd 的后端直接跳过
	rankKey := s.key(model.Version, "rank")
	for _, rec := range model.Popularity {
		if err := s.kv.ZAdd(ctx, rankKey, rec.BayesScore, strconv.FormatInt(rec.MovieID, 10)); err != nil {
			if core.IsStoreNotSupported(err) {
				break
			}
			return err
		}
	}

	// 指针最后切换：到这里新版本才对读方可见
	return s.kv.Set(ctx, s.currentKey(), []byte(model.Version))
}

// Load 加载当前已发布的快照；从未发布过时返回 ErrStoreNotFound。
func (s *ModelKV) Load(ctx context.Context) (*Model, error) {
	versionBytes, err := s.kv.Get(ctx, s.currentKey())
	if err != nil {
		return nil, err
	}
	version := string(versionBytes)

	blobs, err := s.kv.BatchGet(ctx, []string{
		s.key(version, "meta"),
		s.key(version, "neighbors"),
		s.key(version, "popularity"),
	})
	if err != nil {
		return nil, err
	}

	metaBytes, ok := blobs[s.key(version, "meta")]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	var meta modelMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, err
	}

	model := &Model{Version: meta.Version, TrainedAt: meta.TrainedAt}
	if b, ok := blobs[s.key(version, "neighbors")]; ok {
		if err := json.Unmarshal(b, &model.Neighbors); err != nil {
			return nil, err
		}
	}
	if b, ok := blobs[s.key(version, "popularity")]; ok {
		if err := json.Unmarshal(b, &model.Popularity); err != nil {
			return nil, err
		}
	}
	return model, nil
}

// RankKey 返回某个版本热门 zset 的 key（供 recall.Popularity 配置）。
func (s *ModelKV) RankKey(version string) string {
	return s.key(version, "rank")
}

func (s *ModelKV) currentKey() string {
	return s.prefix + ":current"
}

func (s *ModelKV) key(version, part string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, version, part)
}

// Model 是 core.Model 的别名，避免调用方多一个 import。
type Model = core.Model

var _ core.ModelStore = (*ModelKV)(nil)
