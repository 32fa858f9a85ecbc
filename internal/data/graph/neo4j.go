package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

// Neo4jStore backs the knowledge graph with neo4j. Rebuild runs clear plus
// recreate inside a single write transaction, so concurrent readers see the
// previous graph until the transaction commits. Nodes carry an idx property
// recording catalog order, which every read sorts by to match the in-memory
// store's ordering contract.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	log      *logger.Logger
}

func NewNeo4jStore(driver neo4j.DriverWithContext, database string, log *logger.Logger) *Neo4jStore {
	return &Neo4jStore{
		driver:   driver,
		database: database,
		log:      log.With("store", "Neo4jGraph"),
	}
}

func (s *Neo4jStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.database,
	})
}

func (s *Neo4jStore) Rebuild(ctx context.Context, b Build) error {
	if err := validateBuild(b); err != nil {
		return err
	}

	skillRows := make([]map[string]any, 0, len(b.Skills))
	for i, sk := range b.Skills {
		skillRows = append(skillRows, map[string]any{
			"id":       sk.ID,
			"name":     sk.Name,
			"category": sk.Category,
			"level":    int64(sk.Level),
			"idx":      int64(i),
		})
	}
	courseRows := make([]map[string]any, 0, len(b.Courses))
	for i, c := range b.Courses {
		courseRows = append(courseRows, map[string]any{
			"id":         c.ID,
			"title":      c.Title,
			"category":   c.Category,
			"duration":   int64(c.Duration),
			"difficulty": int64(c.Difficulty),
			"idx":        int64(i),
		})
	}
	edgeRows := func(edges []Edge) []map[string]any {
		rows := make([]map[string]any, 0, len(edges))
		for i, e := range edges {
			level := e.Level
			if level <= 0 {
				level = 1
			}
			rows = append(rows, map[string]any{
				"from":  e.From,
				"to":    e.To,
				"level": int64(level),
				"idx":   int64(i),
			})
		}
		return rows
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	// Schema helpers are best-effort; restricted users may not hold the
	// privilege and the store works without them.
	for _, stmt := range []string{
		`CREATE CONSTRAINT skill_id_unique IF NOT EXISTS FOR (s:Skill) REQUIRE s.id IS UNIQUE`,
		`CREATE CONSTRAINT course_id_unique IF NOT EXISTS FOR (c:Course) REQUIRE c.id IS UNIQUE`,
	} {
		if res, err := session.Run(ctx, stmt, nil); err != nil {
			s.log.Warn("neo4j schema init failed (continuing)", "error", err)
		} else {
			_, _ = res.Consume(ctx)
		}
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		run := func(query string, params map[string]any) error {
			res, err := tx.Run(ctx, query, params)
			if err != nil {
				return err
			}
			_, err = res.Consume(ctx)
			return err
		}

		if err := run(`MATCH (n) WHERE n:Skill OR n:Course DETACH DELETE n`, nil); err != nil {
			return nil, err
		}
		if len(skillRows) > 0 {
			if err := run(`
UNWIND $rows AS r
CREATE (s:Skill {id: r.id, name: r.name, category: r.category, level: r.level, idx: r.idx})
`, map[string]any{"rows": skillRows}); err != nil {
				return nil, err
			}
		}
		if len(courseRows) > 0 {
			if err := run(`
UNWIND $rows AS r
CREATE (c:Course {id: r.id, title: r.title, category: r.category, duration: r.duration, difficulty: r.difficulty, idx: r.idx})
`, map[string]any{"rows": courseRows}); err != nil {
				return nil, err
			}
		}
		if rows := edgeRows(b.Teaches); len(rows) > 0 {
			if err := run(`
UNWIND $rows AS r
MATCH (c:Course {id: r.from})
MATCH (s:Skill {id: r.to})
CREATE (c)-[:TEACHES {level: r.level, idx: r.idx}]->(s)
`, map[string]any{"rows": rows}); err != nil {
				return nil, err
			}
		}
		if rows := edgeRows(b.Requires); len(rows) > 0 {
			if err := run(`
UNWIND $rows AS r
MATCH (a:Course {id: r.from})
MATCH (b:Course {id: r.to})
CREATE (a)-[:REQUIRES {idx: r.idx}]->(b)
`, map[string]any{"rows": rows}); err != nil {
				return nil, err
			}
		}
		if rows := edgeRows(b.BuildsOn); len(rows) > 0 {
			if err := run(`
UNWIND $rows AS r
MATCH (a:Skill {id: r.from})
MATCH (b:Skill {id: r.to})
CREATE (a)-[:BUILDS_ON {idx: r.idx}]->(b)
`, map[string]any{"rows": rows}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("neo4j graph rebuild: %w", err)
	}

	s.log.Info("graph rebuilt",
		"skills", len(b.Skills),
		"courses", len(b.Courses),
		"teaches", len(b.Teaches),
		"requires", len(b.Requires),
		"builds_on", len(b.BuildsOn),
	)
	return nil
}

func (s *Neo4jStore) readSkills(ctx context.Context, query string, params map[string]any) ([]types.GraphSkill, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		var skills []types.GraphSkill
		for res.Next(ctx) {
			rec := res.Record()
			skills = append(skills, types.GraphSkill{
				ID:       stringVal(rec, "id"),
				Name:     stringVal(rec, "name"),
				Category: stringVal(rec, "category"),
				Level:    intVal(rec, "level"),
			})
		}
		return skills, res.Err()
	})
	if err != nil {
		return nil, err
	}
	skills, _ := out.([]types.GraphSkill)
	return skills, nil
}

func (s *Neo4jStore) readCourses(ctx context.Context, query string, params map[string]any) ([]types.GraphCourse, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		var courses []types.GraphCourse
		for res.Next(ctx) {
			rec := res.Record()
			courses = append(courses, types.GraphCourse{
				ID:         stringVal(rec, "id"),
				Title:      stringVal(rec, "title"),
				Category:   stringVal(rec, "category"),
				Duration:   intVal(rec, "duration"),
				Difficulty: intVal(rec, "difficulty"),
			})
		}
		return courses, res.Err()
	})
	if err != nil {
		return nil, err
	}
	courses, _ := out.([]types.GraphCourse)
	return courses, nil
}

func (s *Neo4jStore) Skills(ctx context.Context) ([]types.GraphSkill, error) {
	return s.readSkills(ctx, `
MATCH (s:Skill)
RETURN s.id AS id, s.name AS name, s.category AS category, s.level AS level
ORDER BY s.idx
`, nil)
}

func (s *Neo4jStore) Courses(ctx context.Context) ([]types.GraphCourse, error) {
	return s.readCourses(ctx, `
MATCH (c:Course)
RETURN c.id AS id, c.title AS title, c.category AS category, c.duration AS duration, c.difficulty AS difficulty
ORDER BY c.idx
`, nil)
}

func (s *Neo4jStore) Course(ctx context.Context, id string) (*types.GraphCourse, error) {
	courses, err := s.readCourses(ctx, `
MATCH (c:Course {id: $id})
RETURN c.id AS id, c.title AS title, c.category AS category, c.duration AS duration, c.difficulty AS difficulty
`, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, nil
	}
	return &courses[0], nil
}

func (s *Neo4jStore) TaughtSkills(ctx context.Context, courseID string) ([]types.GraphSkill, error) {
	return s.readSkills(ctx, `
MATCH (:Course {id: $id})-[e:TEACHES]->(s:Skill)
RETURN s.id AS id, s.name AS name, s.category AS category, s.level AS level
ORDER BY e.idx
`, map[string]any{"id": courseID})
}

func (s *Neo4jStore) Prerequisites(ctx context.Context, courseID string) ([]string, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (:Course {id: $id})-[e:REQUIRES]->(p:Course)
RETURN p.id AS id
ORDER BY e.idx
`, map[string]any{"id": courseID})
		if err != nil {
			return nil, err
		}
		var ids []string
		for res.Next(ctx) {
			ids = append(ids, stringVal(res.Record(), "id"))
		}
		return ids, res.Err()
	})
	if err != nil {
		return nil, err
	}
	ids, _ := out.([]string)
	return ids, nil
}

func (s *Neo4jStore) PrerequisiteClosure(ctx context.Context, courseID string) ([]string, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH path = (:Course {id: $id})-[:REQUIRES*1..5]->(p:Course)
WHERE p.id <> $id
WITH p, min(length(path)) AS hops
RETURN p.id AS id
ORDER BY hops, p.id
LIMIT $limit
`, map[string]any{"id": courseID, "limit": int64(MaxClosureNodes)})
		if err != nil {
			return nil, err
		}
		var ids []string
		for res.Next(ctx) {
			ids = append(ids, stringVal(res.Record(), "id"))
		}
		return ids, res.Err()
	})
	if err != nil {
		return nil, err
	}
	ids, _ := out.([]string)
	return ids, nil
}

func (s *Neo4jStore) CoursesTeaching(ctx context.Context, skillID string) ([]types.GraphCourse, error) {
	return s.readCourses(ctx, `
MATCH (c:Course)-[e:TEACHES]->(:Skill {id: $id})
RETURN c.id AS id, c.title AS title, c.category AS category, c.duration AS duration, c.difficulty AS difficulty
ORDER BY c.idx
`, map[string]any{"id": skillID})
}

func (s *Neo4jStore) SkillPrerequisites(ctx context.Context, skillID string) ([]types.GraphSkill, error) {
	return s.readSkills(ctx, `
MATCH (:Skill {id: $id})-[e:BUILDS_ON]->(s:Skill)
RETURN s.id AS id, s.name AS name, s.category AS category, s.level AS level
ORDER BY e.idx
`, map[string]any{"id": skillID})
}

func stringVal(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func intVal(rec *neo4j.Record, key string) int {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
