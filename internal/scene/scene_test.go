package scene

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vtree"
)

const counterScene = `
name: counter
functions:
  Label:
    host: TextLabel
    props:
      Text: "Count: {{props.count}}"
classes:
  Counter:
    state:
      count: 0
      title: "{{props.title}}"
    render:
      host: Frame
      props:
        Title: "{{state.title}}"
      children:
        label:
          function: Label
          props:
            count: "{{state.count}}"
        badge:
          host: ImageLabel
          when: state.count
steps:
  - name: mount
    root:
      class: Counter
      props:
        title: Clicks
  - name: increment
    setState:
      state:
        count: 2
  - name: retitle
    root:
      class: Counter
      props:
        title: Ignored
  - unmount: true
`

func newPlayer(t *testing.T, src string) (*Player, *render.Object) {
	t.Helper()
	s, err := Parse([]byte(src), "test.yaml")
	require.NoError(t, err)

	screen := render.NewContainer("screen")
	r := vtree.New(render.NewRenderer(render.RendererConfig{}))
	return NewPlayer(s, r, screen, "app"), screen
}

func TestPlayer_CounterScene(t *testing.T) {
	p, screen := newPlayer(t, counterScene)
	ctx := context.Background()

	i, err := p.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	frame := screen.Child("app")
	require.NotNil(t, frame)
	assert.Equal(t, "Frame", frame.Class)
	assert.Equal(t, "Clicks", frame.Props["Title"])
	assert.Equal(t, "Count: 0", frame.Find("label").Props["Text"])
	assert.Nil(t, frame.Child("badge"), "badge is hidden while count is zero")

	_, err = p.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Count: 2", frame.Find("label").Props["Text"])
	assert.NotNil(t, frame.Child("badge"))

	// Same class at the root: the instance and its state survive.
	_, err = p.Step(ctx)
	require.NoError(t, err)
	assert.Same(t, frame, screen.Child("app"))
	assert.Equal(t, "Clicks", frame.Props["Title"], "title comes from initial state")
	assert.Equal(t, "Count: 2", frame.Find("label").Props["Text"])

	_, err = p.Step(ctx)
	require.NoError(t, err)
	assert.Nil(t, p.Tree())
	assert.Equal(t, 0, screen.Count())
	assert.True(t, frame.Destroyed())

	assert.True(t, p.Done())
	_, err = p.Step(ctx)
	assert.ErrorIs(t, err, ErrDone)
}

func TestPlayer_Run(t *testing.T) {
	p, screen := newPlayer(t, counterScene)
	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, 4, p.Position())
	assert.Equal(t, 0, screen.Count())
}

func TestPlayer_SetStateWithoutTree(t *testing.T) {
	p, _ := newPlayer(t, `
classes:
  C:
    render: {host: Frame}
steps:
  - setState: {state: {x: 1}}
`)
	_, err := p.Step(context.Background())
	assert.ErrorIs(t, err, vtree.ErrTreeUnmounted)
	assert.True(t, p.Done(), "a failed step is not retried")
}

func TestPlayer_SetStatePathAndRemove(t *testing.T) {
	p, screen := newPlayer(t, `
classes:
  Toggle:
    state: {open: true}
    render:
      host: Frame
      children:
        body: {host: Frame, when: state.open}
steps:
  - root:
      host: Frame
      children:
        left: {class: Toggle}
        right: {class: Toggle}
  - setState:
      path: [right]
      state: {open: null}
`)
	require.NoError(t, p.Run(context.Background()))

	root := screen.Child("app")
	require.NotNil(t, root)
	assert.NotNil(t, root.Find("left", "body"))
	assert.NotNil(t, root.Child("right"))
	assert.Nil(t, root.Find("right", "body"))

	inst, err := FindInstance(p.Tree().Root(), []string{"right"})
	require.NoError(t, err)
	_, ok := inst.State()["open"]
	assert.False(t, ok, "null removes the key")

	_, err = FindInstance(p.Tree().Root(), []string{"missing"})
	assert.Equal(t, errors.CodeSceneReference, errors.CodeOf(err))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"bad yaml", "steps: [", errors.CodeSceneParse},
		{"unknown function", "steps:\n  - root: {function: Nope}", errors.CodeSceneReference},
		{"unknown class", "steps:\n  - root: {class: Nope}", errors.CodeSceneReference},
		{"two kinds", "steps:\n  - root: {host: Frame, class: X}", errors.CodeSceneReference},
		{"empty step", "steps:\n  - name: nothing", errors.CodeSceneReference},
		{"two actions", "steps:\n  - {root: {host: Frame}, unmount: true}", errors.CodeSceneReference},
		{"conditional root", "steps:\n  - root: {host: Frame, when: state.x}", errors.CodeSceneReference},
		{"children on function", "functions:\n  F: {host: Frame}\nsteps:\n  - root: {function: F, children: {a: {host: Frame}}}", errors.CodeSceneReference},
		{"class without render", "classes:\n  C: {state: {a: 1}}\nsteps: []", errors.CodeSceneReference},
		{"empty setState", "steps:\n  - setState: {path: [a]}", errors.CodeSceneReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.yaml")
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Contains(t, err.Error(), "bad.yaml")
		})
	}
}

func TestScene_BuildKeepsIdentity(t *testing.T) {
	s, err := Parse([]byte(counterScene), "test.yaml")
	require.NoError(t, err)

	a, err := s.Build(0)
	require.NoError(t, err)
	b, err := s.Build(2)
	require.NoError(t, err)
	assert.True(t, vtree.SameComponent(a, b))
	assert.Same(t, s.Class("Counter"), a.Component())
	assert.NotNil(t, s.Function("Label"))

	_, err = s.Build(1)
	assert.Equal(t, errors.CodeSceneReference, errors.CodeOf(err))
	_, err = s.Build(9)
	assert.Equal(t, errors.CodeSceneReference, errors.CodeOf(err))
}

func TestScope_Resolve(t *testing.T) {
	sc := scope{
		props: vtree.Props{"name": "Ada", "n": 3},
		state: vtree.State{"on": true},
	}

	assert.Equal(t, 3, sc.resolve("{{props.n}}"))
	assert.Equal(t, true, sc.resolve("{{ state.on }}"))
	assert.Equal(t, "Hi Ada (3)", sc.resolve("Hi {{props.name}} ({{props.n}})"))
	assert.Equal(t, "x=", sc.resolve("x={{state.missing}}"))
	assert.Nil(t, sc.resolve("{{state.missing}}"))
	assert.Equal(t, "plain", sc.resolve("plain"))

	assert.True(t, sc.when("state.on"))
	assert.False(t, sc.when("!state.on"))
	assert.False(t, sc.when("props.missing"))
	assert.True(t, sc.when("{{props.n}}"))
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{nil, false, "", "false", "0", 0, int64(0), 0.0} {
		assert.False(t, truthy(v), "%#v", v)
	}
	for _, v := range []any{true, "yes", 1, 2.5, []any{}} {
		assert.True(t, truthy(v), "%#v", v)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(counterScene), 0644))

	s, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "counter", s.Name)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, path, s.Source())

	_, err = Load(context.Background(), "file://"+path)
	require.NoError(t, err)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, errors.CodeSceneRead, errors.CodeOf(err))
}

type fakeS3 struct {
	objects map[string]string
	calls   []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.calls = append(f.calls, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestLoad_S3(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"scenes/ui/counter.yaml": counterScene}}
	l := &Loader{S3: fake}

	s, err := l.Load(context.Background(), "s3://scenes/ui/counter.yaml")
	require.NoError(t, err)
	assert.Equal(t, "counter", s.Name)
	assert.Equal(t, []string{"scenes/ui/counter.yaml"}, fake.calls)

	_, err = l.Load(context.Background(), "s3://scenes/ui/missing.yaml")
	assert.Equal(t, errors.CodeSceneRead, errors.CodeOf(err))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = l.Load(context.Background(), "s3://bucket-only")
	assert.Equal(t, errors.CodeSceneRead, errors.CodeOf(err))
}

func TestParseS3URI(t *testing.T) {
	bucket, key, ok := parseS3URI("s3://b/a/b.yaml")
	assert.True(t, ok)
	assert.Equal(t, "b", bucket)
	assert.Equal(t, "a/b.yaml", key)

	for _, bad := range []string{"b/a.yaml", "s3://", "s3://b", "s3://b/", "s3:///k"} {
		_, _, ok := parseS3URI(bad)
		assert.False(t, ok, bad)
	}
}

func TestNewS3Client(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	ctx := context.Background()

	c, err := NewS3Client(ctx, S3Options{
		Region:          "eu-west-1",
		Endpoint:        "http://localhost:9000",
		PathStyle:       true,
		AccessKeyID:     "id",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	o := c.Options()
	assert.Equal(t, "eu-west-1", o.Region)
	assert.Equal(t, "http://localhost:9000", aws.ToString(o.BaseEndpoint))
	assert.True(t, o.UsePathStyle)

	creds, err := o.Credentials.Retrieve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "id", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)

	anon, err := NewS3Client(ctx, S3Options{Region: "us-east-1", Anonymous: true})
	require.NoError(t, err)
	assert.True(t, aws.IsCredentialsProvider(anon.Options().Credentials, aws.AnonymousCredentials{}))
}

func TestSampleScene(t *testing.T) {
	s, err := Load(context.Background(), filepath.Join("..", "..", "scenes", "counter.yaml"))
	require.NoError(t, err)

	screen := render.NewContainer("screen")
	p := NewPlayer(s, vtree.New(render.NewRenderer(render.RendererConfig{})), screen, "app")

	for i := 0; i < 3; i++ {
		_, err := p.Step(context.Background())
		require.NoError(t, err)
	}
	counter := screen.Child("app")
	require.NotNil(t, counter)
	assert.Nil(t, counter.Child("badge"))

	_, err = p.Step(context.Background())
	require.NoError(t, err)
	assert.True(t, counter.Destroyed(), "a kind change replaces the subtree")
	assert.Equal(t, "Done", screen.Child("app").Props["Title"])

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, 0, screen.Count())
}
