package dynamo_test

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/snapnutrient/snapnutrient/domain"
	"github.com/snapnutrient/snapnutrient/internal/repository/dynamo"
)

// memStore mimics the table semantics the repositories rely on: the set add
// is idempotent on membership while the counter moves unconditionally, the
// list append preserves order, and the index query pages in descending
// sort order handing back a resume key whenever it stopped at the limit.
type memStore struct {
	mu        sync.Mutex
	pkAttr    string
	skAttr    string
	indexSort string
	items     map[string]map[string]types.AttributeValue
}

var _ dynamo.RecordStore = (*memStore)(nil)

func newMemStore(pkAttr, skAttr, indexSort string) *memStore {
	return &memStore{
		pkAttr:    pkAttr,
		skAttr:    skAttr,
		indexSort: indexSort,
		items:     make(map[string]map[string]types.AttributeValue),
	}
}

func strAttr(item map[string]types.AttributeValue, name string) string {
	if av, ok := item[name].(*types.AttributeValueMemberS); ok {
		return av.Value
	}
	return ""
}

func (s *memStore) itemKey(item map[string]types.AttributeValue) string {
	k := strAttr(item, s.pkAttr)
	if s.skAttr != "" {
		k += "\x00" + strAttr(item, s.skAttr)
	}
	return k
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	dup := make(map[string]types.AttributeValue, len(item))
	for name, av := range item {
		dup[name] = av
	}
	return dup
}

func (s *memStore) Put(_ context.Context, item map[string]types.AttributeValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[s.itemKey(item)] = copyItem(item)
	return nil
}

func (s *memStore) PutIfAbsent(_ context.Context, item map[string]types.AttributeValue, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.itemKey(item)
	if _, ok := s.items[k]; ok {
		return domain.ErrConflict
	}
	s.items[k] = copyItem(item)
	return nil
}

func (s *memStore) Get(_ context.Context, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[s.itemKey(key)]
	if !ok {
		return nil, nil
	}
	return copyItem(item), nil
}

func (s *memStore) Delete(_ context.Context, key map[string]types.AttributeValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, s.itemKey(key))
	return nil
}

func (s *memStore) sortedMatches(keyAttr, keyValue, sortAttr string) []map[string]types.AttributeValue {
	var matches []map[string]types.AttributeValue
	for _, item := range s.items {
		if strAttr(item, keyAttr) == keyValue {
			matches = append(matches, item)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := strAttr(matches[i], sortAttr), strAttr(matches[j], sortAttr)
		if a != b {
			return a > b
		}
		return s.itemKey(matches[i]) > s.itemKey(matches[j])
	})
	return matches
}

func (s *memStore) QueryIndexDesc(_ context.Context, keyAttr, keyValue string, limit int32, startKey map[string]types.AttributeValue) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := s.sortedMatches(keyAttr, keyValue, s.indexSort)

	start := 0
	if startKey != nil {
		for i, item := range matches {
			if s.itemKey(item) == s.itemKey(startKey) {
				start = i + 1
				break
			}
		}
	}

	var page []map[string]types.AttributeValue
	for i := start; i < len(matches) && len(page) < int(limit); i++ {
		page = append(page, copyItem(matches[i]))
	}

	var lastKey map[string]types.AttributeValue
	if len(page) == int(limit) && len(page) > 0 {
		last := page[len(page)-1]
		lastKey = map[string]types.AttributeValue{
			s.pkAttr:    last[s.pkAttr],
			keyAttr:     last[keyAttr],
			s.indexSort: last[s.indexSort],
		}
		if s.skAttr != "" {
			lastKey[s.skAttr] = last[s.skAttr]
		}
	}
	return page, lastKey, nil
}

func (s *memStore) QueryRange(_ context.Context, pkAttr, pkValue, skAttr, skFrom, skTo string) ([]map[string]types.AttributeValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []map[string]types.AttributeValue
	for _, item := range s.sortedMatches(pkAttr, pkValue, skAttr) {
		sk := strAttr(item, skAttr)
		if sk >= skFrom && sk <= skTo {
			res = append(res, copyItem(item))
		}
	}
	return res, nil
}

func (s *memStore) AddToSetAndIncr(_ context.Context, key map[string]types.AttributeValue, setAttr, member, counterAttr string) (map[string]types.AttributeValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.upsert(key)
	members := setMembers(item, setAttr)
	found := false
	for _, m := range members {
		if m == member {
			found = true
		}
	}
	if !found {
		members = append(members, member)
	}
	item[setAttr] = &types.AttributeValueMemberSS{Value: members}
	bumpCounter(item, counterAttr, 1)
	return copyItem(item), nil
}

func (s *memStore) RemoveFromSetAndDecr(_ context.Context, key map[string]types.AttributeValue, setAttr, member, counterAttr string) (map[string]types.AttributeValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.upsert(key)
	var members []string
	for _, m := range setMembers(item, setAttr) {
		if m != member {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		delete(item, setAttr)
	} else {
		item[setAttr] = &types.AttributeValueMemberSS{Value: members}
	}
	bumpCounter(item, counterAttr, -1)
	return copyItem(item), nil
}

func (s *memStore) AppendToList(_ context.Context, key map[string]types.AttributeValue, listAttr string, element types.AttributeValue) (map[string]types.AttributeValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.upsert(key)
	var list []types.AttributeValue
	if existing, ok := item[listAttr].(*types.AttributeValueMemberL); ok {
		list = existing.Value
	}
	item[listAttr] = &types.AttributeValueMemberL{Value: append(list, element)}
	return copyItem(item), nil
}

func (s *memStore) upsert(key map[string]types.AttributeValue) map[string]types.AttributeValue {
	k := s.itemKey(key)
	item, ok := s.items[k]
	if !ok {
		item = copyItem(key)
		s.items[k] = item
	}
	return item
}

func setMembers(item map[string]types.AttributeValue, setAttr string) []string {
	if av, ok := item[setAttr].(*types.AttributeValueMemberSS); ok {
		return av.Value
	}
	return nil
}

func bumpCounter(item map[string]types.AttributeValue, counterAttr string, delta int64) {
	var current int64
	if av, ok := item[counterAttr].(*types.AttributeValueMemberN); ok {
		current, _ = strconv.ParseInt(av.Value, 10, 64)
	}
	item[counterAttr] = &types.AttributeValueMemberN{Value: strconv.FormatInt(current+delta, 10)}
}
