package qdrant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/assessly/store"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const (
	// DefaultAddr is the Qdrant gRPC port. 6333 is the HTTP port.
	DefaultAddr = "localhost:6334"

	// DefaultCollection is the collection chunks are stored in.
	DefaultCollection = "assessly_chunks"
)

// Client wraps a Qdrant gRPC connection scoped to one collection.
type Client struct {
	conn        *grpc.ClientConn
	points      qdrant.PointsClient
	collections qdrant.CollectionsClient
	collection  string
	dimension   int
	logger      *slog.Logger
}

// Connect dials the Qdrant gRPC endpoint and ensures the collection
// exists with the requested vector dimension. An existing collection
// with a different dimension is an error.
func Connect(ctx context.Context, addr, collection string, dimension int) (*Client, error) {
	if addr == "" {
		addr = DefaultAddr
	}
	if collection == "" {
		collection = DefaultCollection
	}

	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, err
	}

	client := &Client{
		conn:        conn,
		points:      qdrant.NewPointsClient(conn),
		collections: qdrant.NewCollectionsClient(conn),
		collection:  collection,
		dimension:   dimension,
		logger:      slog.Default().With("component", "qdrant", "collection", collection),
	}

	if err := client.ensureCollection(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return client, nil
}

func (c *Client) ensureCollection(ctx context.Context) error {
	info, err := c.collections.Get(ctx, &qdrant.GetCollectionInfoRequest{
		CollectionName: c.collection,
	})
	if err != nil {
		if status.Code(err) != codes.NotFound {
			return err
		}
		c.logger.Info("collection not found, creating it")
		_, err = c.collections.Create(ctx, &qdrant.CreateCollection{
			CollectionName: c.collection,
			VectorsConfig: &qdrant.VectorsConfig{
				Config: &qdrant.VectorsConfig_Params{
					Params: &qdrant.VectorParams{
						Size:     uint64(c.dimension),
						Distance: qdrant.Distance_Cosine,
					},
				},
			},
		})
		return err
	}

	params := info.GetResult().GetConfig().GetParams().GetVectorsConfig().GetParams()
	if params != nil && int(params.GetSize()) != c.dimension {
		return fmt.Errorf("%w: collection %s has dimension %d, requested %d",
			store.ErrDimensionMetadata, c.collection, params.GetSize(), c.dimension)
	}
	return nil
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
