package generators

import (
	"os"
	"strings"
	"testing"

	"github.com/cmu-l3/metagen/configs"
	"github.com/cmu-l3/metagen/modes"
	"github.com/cmu-l3/metagen/nets"
	"github.com/reusee/dscope"
)

func testGenerator(
	t *testing.T,
	keyEnv string,
	newGenerator any,
) {

	if os.Getenv(keyEnv) == "" {
		t.Skipf("%s not set", keyEnv)
	}

	t.Run("generate", func(t *testing.T) {
		loader := configs.NewLoader([]string{}, "")
		scope := dscope.New(
			modes.ForTest(t),
			&loader,
			new(Module),
		).Fork(
			func() nets.ProxyAddr {
				return nets.ProxyAddr(os.Getenv("METAGEN_TEST_PROXY"))
			},
		)

		var generator Generator
		scope.Call(newGenerator).Assign(&generator)

		prompts := NewPrompts("", []*Content{
			{
				Role: RoleUser,
				Parts: []Part{
					Text("reply with the single word: pong"),
				},
			},
		})
		output := NewOutput(prompts, t.Output(), true)
		state := State(output)

		var err error
		state, err = generator.Generate(t.Context(), state)
		if err != nil {
			t.Fatal(err)
		}

		prompts, ok := As[Prompts](state)
		if !ok {
			t.Fatal("Prompts not found")
		}
		var reply strings.Builder
		for _, content := range prompts.Contents() {
			if content.Role != RoleModel && content.Role != RoleAssistant {
				continue
			}
			for _, part := range content.Parts {
				if text, ok := part.(Text); ok {
					reply.WriteString(string(text))
				}
			}
		}
		if reply.Len() == 0 {
			t.Fatal("no model output")
		}

	})

}
