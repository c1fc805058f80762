package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/recipehub/recipe-api/internal/core/domain"
	"github.com/recipehub/recipe-api/internal/core/ports"
)

type RecipeRepository struct {
	col *mongo.Collection
}

func NewRecipeRepository(db *mongo.Database) *RecipeRepository {
	return &RecipeRepository{col: db.Collection(collectionRecipes)}
}

type mongoRecipe struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Ingredients     []string           `bson:"ingredients"`
	Instructions    string             `bson:"instructions"`
	Author          string             `bson:"author"`
	Category        *string            `bson:"category,omitempty"`
	PreparationTime *float64           `bson:"preparationTime,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"`
}

func fromDomain(r *domain.Recipe) mongoRecipe {
	return mongoRecipe{
		Title:           r.Title,
		Ingredients:     r.Ingredients,
		Instructions:    r.Instructions,
		Author:          r.Author,
		Category:        r.Category,
		PreparationTime: r.PreparationTime,
		CreatedAt:       r.CreatedAt.UTC(),
	}
}

func (m mongoRecipe) toDomain() *domain.Recipe {
	ingredients := m.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return &domain.Recipe{
		ID:              m.ID.Hex(),
		Title:           m.Title,
		Ingredients:     ingredients,
		Instructions:    m.Instructions,
		Author:          m.Author,
		Category:        m.Category,
		PreparationTime: m.PreparationTime,
		CreatedAt:       m.CreatedAt.UTC(),
	}
}

// objectID parses a hex id. Malformed ids resolve to no record.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrRecipeNotFound
	}
	return oid, nil
}

func (r *RecipeRepository) Create(ctx context.Context, rec *domain.Recipe) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, fromDomain(rec))
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert recipe: unexpected id type %T", res.InsertedID)
	}
	rec.ID = oid.Hex()
	return nil
}

// InsertMany writes all recipes in one bulk insert and assigns their ids.
func (r *RecipeRepository) InsertMany(ctx context.Context, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, len(recipes))
	for i, rec := range recipes {
		doc := fromDomain(rec)
		doc.ID = primitive.NewObjectID()
		docs[i] = doc
		rec.ID = doc.ID.Hex()
	}

	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert recipes: %w", err)
	}
	return nil
}

func (r *RecipeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return n, nil
}

// List returns all recipes in natural (insertion) order.
func (r *RecipeRepository) List(ctx context.Context) ([]*domain.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find recipes: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRecipe
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}

	out := make([]*domain.Recipe, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*domain.Recipe, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoRecipe
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	return doc.toDomain(), nil
}

// Update applies the changes and returns the document as stored afterwards.
// createdAt is never part of the update.
func (r *RecipeRepository) Update(ctx context.Context, id string, c ports.RecipeChanges) (*domain.Recipe, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":        c.Title,
		"ingredients":  c.Ingredients,
		"instructions": c.Instructions,
		"author":       c.Author,
	}
	if c.Category != nil {
		set["category"] = *c.Category
	}
	if c.PreparationTime != nil {
		set["preparationTime"] = *c.PreparationTime
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoRecipe
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}
