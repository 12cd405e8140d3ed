package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"account-research-report/internal/config"
	"account-research-report/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDBClient wraps the MongoDB client used for the completed-task archive.
// A completed task is archived under a cache key derived from its request, so
// an identical request can be answered without a new generation run.
type MongoDBClient struct {
	client     *mongo.Client
	database   *mongo.Database
	collection *mongo.Collection
}

// ArchivedTask represents an archived completed task document
type ArchivedTask struct {
	CacheKey     string                 `bson:"_id" json:"cacheKey"`
	TaskID       string                 `bson:"taskId" json:"taskId"`
	Request      models.GenerateRequest `bson:"request" json:"request"`
	ArtifactPath string                 `bson:"artifactPath" json:"artifactPath"`
	CreatedAt    time.Time              `bson:"createdAt" json:"createdAt"`
	LastAccessed time.Time              `bson:"lastAccessed" json:"lastAccessed"`
}

// NewMongoDBClient creates a new MongoDB client for the task archive
func NewMongoDBClient(cfg config.MongoDBConfig) (*MongoDBClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Build connection URI
	uri := cfg.URI
	if uri == "" {
		if cfg.Username != "" && cfg.Password != "" {
			// Use url.UserPassword to properly encode username and password
			userInfo := url.UserPassword(cfg.Username, cfg.Password)
			uri = fmt.Sprintf("mongodb://%s@%s:%s/%s?authSource=%s",
				userInfo.String(),
				cfg.Host,
				cfg.Port,
				cfg.Database,
				url.QueryEscape(cfg.AuthSource),
			)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%s/%s",
				cfg.Host,
				cfg.Port,
				cfg.Database,
			)
		}
	}

	// Log connection attempt (mask password)
	logURI := uri
	if cfg.Password != "" && cfg.Username != "" {
		authSource := cfg.AuthSource
		if authSource == "" {
			authSource = "admin"
		}
		logURI = fmt.Sprintf("mongodb://%s:***@%s:%s/%s?authSource=%s",
			url.User(cfg.Username).String(), cfg.Host, cfg.Port, cfg.Database, url.QueryEscape(authSource))
	}
	log.Printf("Attempting to connect to MongoDB at %s", logURI)

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB at %s: %w", logURI, err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB at %s: %w", logURI, err)
	}

	database := client.Database(cfg.Database)
	collection := database.Collection(cfg.Collection)

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "_id", Value: 1}},
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Index might already exist, that's okay
		log.Printf("Note: MongoDB index creation: %v", err)
	}

	return &MongoDBClient{
		client:     client,
		database:   database,
		collection: collection,
	}, nil
}

// Close closes the MongoDB client connection
func (c *MongoDBClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// GenerateCacheKey derives a stable key from the request parameters. Section
// order is irrelevant to the result, so sections are sorted before hashing;
// an empty selection keys distinctly from any explicit selection.
func GenerateCacheKey(req models.GenerateRequest) string {
	sections := append([]string(nil), req.Sections...)
	sort.Strings(sections)

	raw := strings.Join([]string{
		req.TargetCompany,
		req.UserCompany,
		req.Language,
		strings.Join(sections, ","),
	}, "|")

	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// FindCompletedByRequest looks up an archived completed task for an identical
// request. Returns (nil, nil) when nothing is archived.
func (c *MongoDBClient) FindCompletedByRequest(req models.GenerateRequest) (*ArchivedTask, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := GenerateCacheKey(req)

	var archived ArchivedTask
	err := c.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&archived)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}

	// Touch last access, best effort
	_, _ = c.collection.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"lastAccessed": time.Now()}},
	)

	return &archived, nil
}

// SaveCompletedTask archives a completed task, replacing any previous archive
// entry for the same request.
func (c *MongoDBClient) SaveCompletedTask(task *models.Task) error {
	if task.Status != models.TaskStatusCompleted {
		return fmt.Errorf("only completed tasks are archived (task %s is %s)", task.ID, task.Status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	archived := ArchivedTask{
		CacheKey:     GenerateCacheKey(task.Request),
		TaskID:       task.ID,
		Request:      task.Request,
		ArtifactPath: task.ArtifactPath,
		CreatedAt:    task.CreatedAt,
		LastAccessed: time.Now(),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := c.collection.ReplaceOne(ctx, bson.M{"_id": archived.CacheKey}, archived, opts); err != nil {
		return fmt.Errorf("failed to archive task %s: %w", task.ID, err)
	}
	return nil
}

// DeleteByCacheKey removes an archive entry, used when its artifact is retired
func (c *MongoDBClient) DeleteByCacheKey(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := c.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete archive entry: %w", err)
	}
	return nil
}
