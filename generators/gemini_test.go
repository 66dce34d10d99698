package generators

import (
	"context"
	"net"
	"os"
	"testing"

	generativelanguage "cloud.google.com/go/ai/generativelanguage/apiv1beta"
	"cloud.google.com/go/ai/generativelanguage/apiv1beta/generativelanguagepb"
	"github.com/cmu-l3/metagen/configs"
	"github.com/cmu-l3/metagen/modes"
	"github.com/cmu-l3/metagen/nets"
	"github.com/cmu-l3/metagen/vars"
	"github.com/reusee/dscope"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
)

func TestGemini(t *testing.T) {
	testGenerator(t, "GOOGLE_API_KEY", func(
		newGemini NewGemini,
	) Generator {
		generator := newGemini(GeneratorArgs{
			Model:             "models/gemini-flash-latest",
			ContextTokens:     1 * M,
			MaxGenerateTokens: vars.PtrTo(64 * K),
			Temperature:       vars.PtrTo[float32](0.1),
			DisableSearch:     true,
		})
		return generator
	})
}

func TestGeminiListModels(t *testing.T) {
	if os.Getenv("GOOGLE_API_KEY") == "" {
		t.Skip("GOOGLE_API_KEY not set")
	}
	loader := configs.NewLoader([]string{}, "")
	dscope.New(
		modes.ForTest(t),
		&loader,
		new(Module),
	).Fork(
		func() nets.ProxyAddr {
			return nets.ProxyAddr(os.Getenv("METAGEN_TEST_PROXY"))
		},
	).Call(func(
		dialer nets.Dialer,
		apiKey GoogleAPIKey,
	) {
		ctx := t.Context()

		clientOptions := []option.ClientOption{
			option.WithAPIKey(string(apiKey)),
			option.WithGRPCDialOption(
				grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
					return dialer.DialContext(ctx, "tcp", addr)
				}),
			),
		}
		client, err := generativelanguage.NewModelClient(ctx, clientOptions...)
		if err != nil {
			t.Fatal(err)
		}

		iter := client.ListModels(ctx, &generativelanguagepb.ListModelsRequest{
			PageSize: 1000,
		})
		for model, err := range iter.All() {
			if err != nil {
				t.Fatal(err)
			}
			_ = model
		}

	})
}
