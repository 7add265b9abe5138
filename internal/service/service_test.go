package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/products_api/internal/models"
	"github.com/Skotchmaster/products_api/internal/repo"
	"github.com/Skotchmaster/products_api/internal/testutil"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: event.(map[string]any)})
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Event["type"].(string)
	}
	return out
}

type fakeIndex struct {
	docs map[int64]models.Product
	err  error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[int64]models.Product{}}
}

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	if f.err != nil {
		return f.err
	}
	f.docs[p.ID] = p
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	delete(f.docs, id)
	return nil
}

type testEnv struct {
	Products *ProductService
	Users    *UserService
	Pub      *recordingPublisher
	Index    *fakeIndex
}

func newTestEnv(t *testing.T) *testEnv {
	r := repo.NewGormRepo(testutil.InitTestDB(t))
	pub := &recordingPublisher{}
	idx := newFakeIndex()
	return &testEnv{
		Products: &ProductService{Repo: r, Publisher: pub, Index: idx},
		Users:    &UserService{Repo: r, Publisher: pub, Index: idx},
		Pub:      pub,
		Index:    idx,
	}
}

func pen() models.Product {
	return models.Product{Name: "Pen", Description: "Blue ink", Price: decimal.RequireFromString("1.50")}
}

func TestCreateProductIgnoresPayloadID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := pen()
	p.ID = 77
	created, err := env.Products.CreateProduct(ctx, p)
	require.NoError(t, err)
	require.NotEqual(t, int64(77), created.ID)

	got, err := env.Products.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Pen", got.Name)

	require.Equal(t, []string{"product_created"}, env.Pub.types())
	require.Equal(t, ProductTopic, env.Pub.events[0].Topic)
	require.Contains(t, env.Index.docs, created.ID)
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Products.GetProduct(context.Background(), 5)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateProductIDMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created, err := env.Products.CreateProduct(ctx, pen())
	require.NoError(t, err)

	body := pen()
	body.ID = created.ID + 1
	_, err = env.Products.UpdateProduct(ctx, created.ID, body)
	require.ErrorIs(t, err, ErrIDMismatch)

	body.ID = created.ID
	body.Name = "Marker"
	updated, err := env.Products.UpdateProduct(ctx, created.ID, body)
	require.NoError(t, err)
	require.Equal(t, "Marker", updated.Name)
	require.Equal(t, "Marker", env.Index.docs[created.ID].Name)

	body.ID = 999
	_, err = env.Products.UpdateProduct(ctx, 999, body)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdatePrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created, err := env.Products.CreateProduct(ctx, pen())
	require.NoError(t, err)

	updated, err := env.Products.UpdatePrice(ctx, created.ID, decimal.RequireFromString("9.99"))
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("9.99").Equal(updated.Price))

	_, err = env.Products.UpdatePrice(ctx, 999, decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, err := env.Products.CreateProduct(ctx, pen())
	require.NoError(t, err)
	b, err := env.Products.CreateProduct(ctx, pen())
	require.NoError(t, err)

	require.ErrorIs(t, env.Products.DeleteProducts(ctx, nil), ErrValidation)
	require.NoError(t, env.Products.DeleteProducts(ctx, []int64{a.ID, b.ID, 999}))
	require.Empty(t, env.Index.docs)
	require.ErrorIs(t, env.Products.DeleteProducts(ctx, []int64{a.ID}), ErrProductNotFound)

	// one event per removed product, keyed by its id
	require.Len(t, env.Pub.events, 4)
	for i, id := range []int64{a.ID, b.ID} {
		ev := env.Pub.events[2+i]
		require.Equal(t, ProductTopic, ev.Topic)
		require.Equal(t, strconv.FormatInt(id, 10), ev.Key)
		require.Equal(t, "product_deleted", ev.Event["type"])
		require.Equal(t, id, ev.Event["productID"])
	}
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created, err := env.Products.CreateProduct(ctx, pen())
	require.NoError(t, err)

	require.NoError(t, env.Products.DeleteProduct(ctx, created.ID))
	require.ErrorIs(t, env.Products.DeleteProduct(ctx, created.ID), ErrProductNotFound)
	require.NotContains(t, env.Index.docs, created.ID)
}

func TestSortedProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, n := range []string{"b", "a", "c"} {
		p := pen()
		p.Name = n
		_, err := env.Products.CreateProduct(ctx, p)
		require.NoError(t, err)
	}

	asc, err := env.Products.SortedProducts(ctx, "ASC")
	require.NoError(t, err)
	require.Equal(t, "a", asc[0].Name)

	desc, err := env.Products.SortedProducts(ctx, "Desc")
	require.NoError(t, err)
	require.Equal(t, "c", desc[0].Name)

	for _, bad := range []string{"", "up", "ascending"} {
		_, err := env.Products.SortedProducts(ctx, bad)
		require.ErrorIs(t, err, ErrInvalidSortOrder)
	}
}

func TestFindByDescription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created, err := env.Products.CreateProduct(ctx, pen())
	require.NoError(t, err)

	got, err := env.Products.FindByDescription(ctx, "ink")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	_, err = env.Products.FindByDescription(ctx, "paper")
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestSideEffectFailuresDoNotFailRequests(t *testing.T) {
	env := newTestEnv(t)
	env.Pub.err = errors.New("broker down")
	env.Index.err = errors.New("index down")

	created, err := env.Products.CreateProduct(context.Background(), pen())
	require.NoError(t, err)
	require.NoError(t, env.Products.DeleteProduct(context.Background(), created.ID))
}

func TestNilSideEffectsAreSkipped(t *testing.T) {
	r := repo.NewGormRepo(testutil.InitTestDB(t))
	svc := &ProductService{Repo: r}

	created, err := svc.CreateProduct(context.Background(), pen())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(context.Background(), created.ID))
}

func TestAssociationErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, err := env.Users.CreateUser(ctx, "ann")
	require.NoError(t, err)
	require.NotNil(t, user.Products)
	prod, err := env.Products.CreateProduct(ctx, pen())
	require.NoError(t, err)

	_, err = env.Users.LinkProduct(ctx, 999, prod.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
	_, err = env.Users.LinkProduct(ctx, user.ID, 999)
	require.ErrorIs(t, err, ErrProductNotFound)

	linked, err := env.Users.LinkProduct(ctx, user.ID, prod.ID)
	require.NoError(t, err)
	require.Len(t, linked.Products, 1)

	_, err = env.Users.LinkProduct(ctx, user.ID, prod.ID)
	require.ErrorIs(t, err, ErrAlreadyLinked)

	items, err := env.Users.UserProducts(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	_, err = env.Users.UserProducts(ctx, 999)
	require.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, env.Users.UnlinkProduct(ctx, user.ID, prod.ID))
	require.ErrorIs(t, env.Users.UnlinkProduct(ctx, user.ID, prod.ID), ErrNotLinked)
	require.ErrorIs(t, env.Users.UnlinkProduct(ctx, 999, prod.ID), ErrUserNotFound)
}

func TestDeleteUserUnindexesOwnedProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, err := env.Users.CreateUser(ctx, "ann")
	require.NoError(t, err)
	owned, err := env.Products.CreateProduct(ctx, pen())
	require.NoError(t, err)
	free, err := env.Products.CreateProduct(ctx, pen())
	require.NoError(t, err)
	_, err = env.Users.LinkProduct(ctx, user.ID, owned.ID)
	require.NoError(t, err)

	require.NoError(t, env.Users.DeleteUser(ctx, user.ID))
	require.NotContains(t, env.Index.docs, owned.ID)
	require.Contains(t, env.Index.docs, free.ID)

	_, err = env.Products.GetProduct(ctx, owned.ID)
	require.ErrorIs(t, err, ErrProductNotFound)

	require.ErrorIs(t, env.Users.DeleteUser(ctx, user.ID), ErrUserNotFound)
	_, err = env.Users.GetUser(ctx, user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	require.Contains(t, env.Pub.types(), "user_deleted")
}
