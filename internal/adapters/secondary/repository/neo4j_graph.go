package repository

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jGraphRepo stores the social graph as (:User)-[:FOLLOWS]->(:User).
// One edge answers both "A follows B" and "B is followed by A", which is what
// keeps the relation pair atomic: there is no second side to forget.
type Neo4jGraphRepo struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jGraphRepo(driver neo4j.DriverWithContext) *Neo4jGraphRepo {
	return &Neo4jGraphRepo{driver: driver}
}

// EnsureSchema creates the uniqueness constraint so id lookups stay O(1).
func (r *Neo4jGraphRepo) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`
		_, err := tx.Run(ctx, query, nil)
		return nil, err
	})
	return err
}

func (r *Neo4jGraphRepo) CreateRelation(ctx context.Context, actorID, targetID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// MERGE is idempotent: nodes and edge are created only if missing.
		query := `
			MERGE (a:User {id: $actorId})
			MERGE (b:User {id: $targetId})
			MERGE (a)-[r:FOLLOWS]->(b)
			ON CREATE SET r.created_at = datetime()
		`
		_, err := tx.Run(ctx, query, map[string]any{"actorId": actorID, "targetId": targetID})
		return nil, err
	})
	return err
}

func (r *Neo4jGraphRepo) DeleteRelation(ctx context.Context, actorID, targetID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (a:User {id: $actorId})-[r:FOLLOWS]->(b:User {id: $targetId})
			DELETE r
		`
		_, err := tx.Run(ctx, query, map[string]any{"actorId": actorID, "targetId": targetID})
		return nil, err
	})
	return err
}

func (r *Neo4jGraphRepo) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			OPTIONAL MATCH (a:User {id: $actorId})-[f:FOLLOWS]->(b:User {id: $targetId})
			RETURN f IS NOT NULL AS following
		`
		res, err := tx.Run(ctx, query, map[string]any{"actorId": actorID, "targetId": targetID})
		if err != nil {
			return false, err
		}
		if res.Next(ctx) {
			following, _ := res.Record().Get("following")
			return following.(bool), nil
		}
		return false, res.Err()
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (r *Neo4jGraphRepo) Counts(ctx context.Context, userID string) (int64, int64, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	type counts struct{ followers, following int64 }

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Both directions in one query.
		query := `
			MATCH (u:User {id: $userId})
			RETURN COUNT { (u)<-[:FOLLOWS]-(:User) } AS followers,
			       COUNT { (u)-[:FOLLOWS]->(:User) } AS following
		`
		res, err := tx.Run(ctx, query, map[string]any{"userId": userID})
		if err != nil {
			return counts{}, err
		}
		if res.Next(ctx) {
			rec := res.Record()
			followers, _ := rec.Get("followers")
			following, _ := rec.Get("following")
			return counts{followers.(int64), following.(int64)}, nil
		}
		// No node yet means no relations at all.
		return counts{}, res.Err()
	})
	if err != nil {
		return 0, 0, err
	}
	c := result.(counts)
	return c.followers, c.following, nil
}

// StreamFollowerIDs walks the incoming FOLLOWS edges with the driver's native
// cursor and yields ids in batches, so a large fan-out never loads the whole
// follower list into memory.
func (r *Neo4jGraphRepo) StreamFollowerIDs(ctx context.Context, userID string, batchSize int, yield func([]string) error) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `MATCH (u:User {id: $userId})<-[:FOLLOWS]-(f:User) RETURN f.id AS followerId`

	res, err := session.Run(ctx, query, map[string]any{"userId": userID})
	if err != nil {
		return err
	}

	batch := make([]string, 0, batchSize)
	for res.Next(ctx) {
		id, _ := res.Record().Get("followerId")
		batch = append(batch, id.(string))

		if len(batch) >= batchSize {
			if err := yield(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := yield(batch); err != nil {
			return err
		}
	}
	return res.Err()
}
