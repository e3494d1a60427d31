package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"gorm.io/gorm"

	catalogEntity "wholesale.GO/model/entity/catalog"
	catalogRepo "wholesale.GO/model/repository/catalog"
)

var (
	searchServiceInstance *SearchService
	searchServiceOnce     sync.Once
)

// GetSearchService returns singleton SearchService.
func GetSearchService() *SearchService {
	searchServiceOnce.Do(func() {
		searchServiceInstance = NewSearchService()
	})
	return searchServiceInstance
}

// SearchService fronts SKU text search. With ELASTICSEARCH_HOST set it
// queries the SKU index; otherwise every search falls back to a LIKE
// query against the skus table.
type SearchService struct {
	client *elasticsearch.Client
	prefix string
}

func NewSearchService() *SearchService {
	host := os.Getenv("ELASTICSEARCH_HOST")
	prefix := os.Getenv("ELASTICSEARCH_INDEX_PREFIX")
	if prefix == "" {
		prefix = "wholesale"
	}
	if host == "" {
		return &SearchService{prefix: prefix}
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return &SearchService{prefix: prefix}
	}

	return &SearchService{
		client: client,
		prefix: prefix,
	}
}

// Search finds SKUs matching query for a tenant. ES hits are re-read from
// the database so the returned rows are always current.
func (s *SearchService) Search(ctx context.Context, db *gorm.DB, tenantID uint, query string, limit int) ([]catalogEntity.SKU, error) {
	if limit <= 0 {
		limit = 20
	}
	skus := catalogRepo.NewSKURepository(db)
	if s.client == nil {
		return skus.Search(tenantID, query, limit)
	}

	ids, err := s.searchIDs(ctx, tenantID, query, limit)
	if err != nil {
		// Index down or missing: degrade to the database.
		return skus.Search(tenantID, query, limit)
	}

	byID, err := skus.FindByIDs(tenantID, ids)
	if err != nil {
		return nil, err
	}
	result := make([]catalogEntity.SKU, 0, len(ids))
	for _, id := range ids {
		if sku, ok := byID[id]; ok {
			result = append(result, sku)
		}
	}
	return result, nil
}

// searchIDs queries the index {prefix}_sku_{tenantID} and returns hit ids
// in relevance order.
func (s *SearchService) searchIDs(ctx context.Context, tenantID uint, query string, limit int) ([]uint, error) {
	indexName := fmt.Sprintf("%s_sku_%d", s.prefix, tenantID)

	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"code^3", "name^2", "color", "material", "barcode"},
			},
		},
	}
	bodyBytes, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(indexName),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	var ids []uint
	for _, hit := range esResp.Hits.Hits {
		if entityID, ok := hit.Source["entity_id"].(float64); ok {
			ids = append(ids, uint(entityID))
		}
	}
	return ids, nil
}
