package faqstore

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-chatbot/internal/domain/faq"
)

// ValkeyStore keeps the query log in a Valkey sorted set plus a display hash.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "faqbot"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// IncrementQuery bumps the counter for canonical and remembers the first display text.
func (s *ValkeyStore) IncrementQuery(ctx context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	cmds := valkey.Commands{
		s.client.B().Zincrby().Key(s.countsKey()).Increment(1).Member(canonical).Build(),
	}
	if display != "" {
		cmds = append(cmds, s.client.B().Hsetnx().Key(s.displayKey()).Field(canonical).Value(display).Build())
	}
	for _, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return err
		}
	}
	return nil
}

// TopQueries returns the most frequent queries; limit <= 0 returns all.
func (s *ValkeyStore) TopQueries(ctx context.Context, limit int) ([]faq.TrendingQuery, error) {
	stop := int64(limit - 1)
	if limit <= 0 {
		stop = -1
	}
	resp := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.countsKey()).Start(0).Stop(stop).Withscores().Build())
	arr, err := resp.ToArray()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	members, scores, err := parseScoredMembers(arr)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	displays, err := s.client.Do(ctx, s.client.B().Hmget().Key(s.displayKey()).Field(members...).Build()).ToArray()
	if err != nil && !valkey.IsValkeyNil(err) {
		return nil, err
	}
	out := make([]faq.TrendingQuery, len(members))
	for i, member := range members {
		display := member
		if i < len(displays) {
			if v, derr := displays[i].ToString(); derr == nil && v != "" {
				display = v
			}
		}
		out[i] = faq.TrendingQuery{Query: display, Count: int64(scores[i])}
	}
	return out, nil
}

// parseScoredMembers accepts both reply shapes of ZREVRANGE WITHSCORES.
func parseScoredMembers(arr []valkey.ValkeyMessage) ([]string, []float64, error) {
	var (
		members []string
		scores  []float64
	)
	for i := 0; i < len(arr); {
		if tuple, tupleErr := arr[i].ToArray(); tupleErr == nil && len(tuple) == 2 {
			// RESP3 returns [member, score] per element
			member, err := tuple[0].ToString()
			if err != nil {
				return nil, nil, err
			}
			score, err := tuple[1].ToFloat64()
			if err != nil {
				return nil, nil, err
			}
			members, scores = append(members, member), append(scores, score)
			i++
			continue
		}
		// RESP2 returns a flat alternating array.
		if i+1 >= len(arr) {
			break
		}
		member, err := arr[i].ToString()
		if err != nil {
			return nil, nil, err
		}
		score, err := arr[i+1].ToFloat64()
		if err != nil {
			return nil, nil, err
		}
		members, scores = append(members, member), append(scores, score)
		i += 2
	}
	return members, scores, nil
}

func (s *ValkeyStore) countsKey() string {
	return fmt.Sprintf("%s:queries", s.prefix)
}

func (s *ValkeyStore) displayKey() string {
	return fmt.Sprintf("%s:queries:display", s.prefix)
}

var _ faq.QueryLog = (*ValkeyStore)(nil)
