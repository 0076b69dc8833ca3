package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/common"
)

// MongoClient lưu mỗi collection thành một MongoDB collection cùng tên bảng.
// Khóa nghiệp vụ là field "id" (số nguyên), _id của Mongo không bao giờ lộ ra ngoài.
type MongoClient struct {
	db      *mongo.Database
	timeout time.Duration
}

// NewMongoClient tạo client trên database đã chọn
func NewMongoClient(client *mongo.Client, dbName string, timeout time.Duration) *MongoClient {
	return &MongoClient{db: client.Database(dbName), timeout: timeout}
}

// Name trả về tên backend
func (m *MongoClient) Name() string { return "mongo" }

func (m *MongoClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}

// ensureCollection trả về SchemaError nếu collection chưa được tạo
func (m *MongoClient) ensureCollection(ctx context.Context, name string) error {
	names, err := m.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return common.ConvertMongoError(err, name)
	}
	if len(names) == 0 {
		return common.NewSchemaError(name, fmt.Errorf("collection %q not found", name))
	}
	return nil
}

func (m *MongoClient) fetchAll(ctx context.Context, name string) ([]byte, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}})
	cursor, err := m.db.Collection(name).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err, name)
	}
	docs := make([]bson.M, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, common.ConvertMongoError(err, name)
	}
	out, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return out, nil
}

// Fetch đọc toàn bộ collection
func (m *MongoClient) Fetch(ctx context.Context, spec models.CollectionSpec) ([]byte, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	if err := m.ensureCollection(ctx, spec.Table); err != nil {
		return nil, err
	}
	return m.fetchAll(ctx, spec.Table)
}

// maxID trả về id lớn nhất đang có trong collection
func (m *MongoClient) maxID(ctx context.Context, name string) (int64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}}).SetProjection(bson.D{{Key: "id", Value: 1}})
	var doc struct {
		ID int64 `bson:"id"`
	}
	err := m.db.Collection(name).FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, common.ConvertMongoError(err, name)
	}
	return doc.ID, nil
}

// Upsert thay từng document theo id; row chưa có id được cấp id = max+1
func (m *MongoClient) Upsert(ctx context.Context, spec models.CollectionSpec, data []byte) ([]byte, error) {
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	if err := m.ensureCollection(ctx, spec.Table); err != nil {
		return nil, err
	}

	next, err := m.maxID(ctx, spec.Table)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if id, ok := rowID(row); ok && id > next {
			next = id
		}
	}

	coll := m.db.Collection(spec.Table)
	for _, row := range rows {
		id, ok := rowID(row)
		if !ok {
			next++
			id = next
		}
		_, err := coll.ReplaceOne(ctx, bson.M{"id": id}, buildDoc(spec, row, id), options.Replace().SetUpsert(true))
		if err != nil {
			return nil, common.ConvertMongoError(err, spec.Table)
		}
	}
	return m.fetchAll(ctx, spec.Table)
}

// Insert chỉ thêm document mới; id đã có trong collection thì trả lỗi, không ghi đè
func (m *MongoClient) Insert(ctx context.Context, spec models.CollectionSpec, data []byte) ([]byte, error) {
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	if err := m.ensureCollection(ctx, spec.Table); err != nil {
		return nil, err
	}

	next, err := m.maxID(ctx, spec.Table)
	if err != nil {
		return nil, err
	}

	coll := m.db.Collection(spec.Table)
	for _, row := range rows {
		id, ok := rowID(row)
		if !ok {
			next++
			id = next
		}
		n, err := coll.CountDocuments(ctx, bson.M{"id": id})
		if err != nil {
			return nil, common.ConvertMongoError(err, spec.Table)
		}
		if n > 0 {
			return nil, duplicateIDError(spec.Table, id)
		}
		if _, err := coll.InsertOne(ctx, buildDoc(spec, row, id)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, duplicateIDError(spec.Table, id)
			}
			return nil, common.ConvertMongoError(err, spec.Table)
		}
		if id > next {
			next = id
		}
	}
	return m.fetchAll(ctx, spec.Table)
}

// buildDoc dựng document từ các cột khai báo trong spec
func buildDoc(spec models.CollectionSpec, row map[string]interface{}, id int64) bson.M {
	doc := bson.M{"id": id}
	for _, col := range spec.Columns {
		if col == "id" {
			continue
		}
		if v, exists := row[col]; exists {
			doc[col] = normalizeValue(v)
		}
	}
	return doc
}

func duplicateIDError(table string, id int64) error {
	return common.NewError(common.ErrCodeValidationUnique,
		fmt.Sprintf("duplicate key: %s.id = %d already exists", table, id),
		common.StatusConflict, map[string]interface{}{"table": table, "id": id})
}

// Delete xóa document theo id
func (m *MongoClient) Delete(ctx context.Context, spec models.CollectionSpec, id int64) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	if err := m.ensureCollection(ctx, spec.Table); err != nil {
		return err
	}
	if _, err := m.db.Collection(spec.Table).DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return common.ConvertMongoError(err, spec.Table)
	}
	return nil
}

// FetchSetting đọc value trong system_config theo key
func (m *MongoClient) FetchSetting(ctx context.Context, key string) (string, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	if err := m.ensureCollection(ctx, models.SystemConfigTable); err != nil {
		return "", err
	}
	var doc models.SystemSetting
	err := m.db.Collection(models.SystemConfigTable).FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", common.ConvertMongoError(err, models.SystemConfigTable)
	}
	return doc.Value, nil
}
