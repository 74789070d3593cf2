//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"testing"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	"github.com/openmarket/orders/internal/clients/http/catalog"
	"github.com/openmarket/orders/internal/clients/http/directory"
	pacttest "github.com/openmarket/orders/test/pact"
)

func mockServerBaseURL(config pactconsumer.MockServerConfig) string {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, config.Port)
}

func TestUserDirectoryContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.DirectoryProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	user := pacttest.ExampleUserPayload()

	pact.AddInteraction().
		Given(pacttest.StateUserExists).
		UponReceiving("a request for an existing user").
		WithRequest("GET", fmt.Sprintf("/users/%d", pacttest.ExistingUserID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":       matchers.Like(user["id"]),
				"email":    matchers.Like(user["email"]),
				"username": matchers.Like(user["username"]),
				"isActive": matchers.Like(user["isActive"]),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateUserMissing).
		UponReceiving("a request for a missing user").
		WithRequest("GET", fmt.Sprintf("/users/%d", pacttest.MissingUserID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client, err := directory.NewClient(mockServerBaseURL(config), nil)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		found, err := client.GetUser(ctx, pacttest.ExistingUserID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if found == nil || found.ID != pacttest.ExistingUserID {
			return fmt.Errorf("expected user %d, got %+v", pacttest.ExistingUserID, found)
		}

		// A genuine 404 is Absent, not an error.
		missing, err := client.GetUser(ctx, pacttest.MissingUserID)
		if err != nil {
			return fmt.Errorf("missing user lookup must not error: %w", err)
		}
		if missing != nil {
			return fmt.Errorf("expected absent user, got %+v", missing)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestProductCatalogContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.CatalogProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	product := pacttest.ExampleProductPayload()

	pact.AddInteraction().
		Given(pacttest.StateProductExists).
		UponReceiving("a request for an existing product").
		WithRequest("GET", fmt.Sprintf("/products/%d", pacttest.ExistingProductID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":       matchers.Like(product["id"]),
				"name":     matchers.Like(product["name"]),
				"price":    matchers.Like(product["price"]),
				"quantity": matchers.Like(product["quantity"]),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", fmt.Sprintf("/products/%d", pacttest.MissingProductID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client, err := catalog.NewClient(mockServerBaseURL(config), nil)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		found, err := client.GetProduct(ctx, pacttest.ExistingProductID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if found == nil || found.ID != pacttest.ExistingProductID {
			return fmt.Errorf("expected product %d, got %+v", pacttest.ExistingProductID, found)
		}

		missing, err := client.GetProduct(ctx, pacttest.MissingProductID)
		if err != nil {
			return fmt.Errorf("missing product lookup must not error: %w", err)
		}
		if missing != nil {
			return fmt.Errorf("expected absent product, got %+v", missing)
		}
		return nil
	})
	require.NoError(t, err)
}
