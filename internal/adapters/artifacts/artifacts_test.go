package artifacts

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/okian/jobaccept/internal/domain/candidate"
	"github.com/okian/jobaccept/internal/domain/classifier"
	"github.com/okian/jobaccept/internal/domain/prediction"
	"github.com/okian/jobaccept/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const modelsDir = "../../../models"

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeS3 serves objects from a map of key to body.
type fakeS3 struct {
	objects map[string]string
	keys    []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := *in.Key
	f.keys = append(f.keys, *in.Bucket+"/"+key)
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestFileSourceLoad(t *testing.T) {
	Convey("Given the bundled model directory", t, func() {
		ctx := context.Background()
		a, err := Load(ctx, NewFileSource(modelsDir), DefaultNames())

		Convey("Then all four artifacts load", func() {
			So(err, ShouldBeNil)
			So(a.Model, ShouldNotBeNil)
			So(a.Target.Classes(), ShouldResemble, []string{"not placed", "placed"})
			So(a.Encoders.Len(), ShouldEqual, 14)
			So(len(a.Scaler.FeatureNames()), ShouldEqual, 16)
			_, ok := a.Model.(*classifier.LogisticRegression)
			So(ok, ShouldBeTrue)
		})

		Convey("Then they build a working pipeline", func() {
			p, err := prediction.NewPipeline(a)
			So(err, ShouldBeNil)
			res, err := p.Predict(ctx, candidate.Default())
			So(err, ShouldBeNil)
			So(res.Confidence, ShouldBeBetweenOrEqual, 50.0, 100.0)
			So([]string{"placed", "not placed"}, ShouldContain, res.Label)
		})
	})

	Convey("Given a directory without artifacts", t, func() {
		_, err := Load(context.Background(), NewFileSource(t.TempDir()), DefaultNames())

		Convey("Then the error names the model file and keeps the cause", func() {
			So(errors.Is(err, ErrArtifactLoad), ShouldBeTrue)
			So(errors.Is(err, fs.ErrNotExist), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "job_acceptance_model.json")
		})
	})

	Convey("Given a corrupt scaler", t, func() {
		dir := t.TempDir()
		for _, name := range []string{"job_acceptance_model.json", "target_encoder.json", "feature_encoders.json"} {
			data, err := os.ReadFile(filepath.Join(modelsDir, name))
			So(err, ShouldBeNil)
			So(os.WriteFile(filepath.Join(dir, name), data, 0o600), ShouldBeNil)
		}
		So(os.WriteFile(filepath.Join(dir, "scaler.json"), []byte(`{"feature_names":["a"],"mean":[],"scale":[1]}`), 0o600), ShouldBeNil)

		_, err := Load(context.Background(), NewFileSource(dir), DefaultNames())

		So(errors.Is(err, ErrArtifactLoad), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "scaler.json")
	})
}

func TestS3SourceLoad(t *testing.T) {
	Convey("Given a bucket holding the artifacts under a prefix", t, func() {
		objects := make(map[string]string)
		for _, name := range []string{"job_acceptance_model.json", "target_encoder.json", "feature_encoders.json", "scaler.json"} {
			data, err := os.ReadFile(filepath.Join(modelsDir, name))
			So(err, ShouldBeNil)
			objects["models/v1/"+name] = string(data)
		}
		client := &fakeS3{objects: objects}

		src, err := NewS3Source(context.Background(), "ml-artifacts", "/models/v1/", WithClient(client))
		So(err, ShouldBeNil)

		Convey("When loading", func() {
			a, err := Load(context.Background(), src, DefaultNames())

			Convey("Then objects are fetched from bucket and prefix", func() {
				So(err, ShouldBeNil)
				So(a.Model, ShouldNotBeNil)
				So(client.keys, ShouldContain, "ml-artifacts/models/v1/scaler.json")
				So(src.Location("scaler.json"), ShouldEqual, "s3://ml-artifacts/models/v1/scaler.json")
			})
		})

		Convey("When an object is missing", func() {
			delete(objects, "models/v1/target_encoder.json")
			_, err := Load(context.Background(), src, DefaultNames())

			Convey("Then the error names the object URL", func() {
				So(errors.Is(err, ErrArtifactLoad), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "s3://ml-artifacts/models/v1/target_encoder.json")
			})
		})
	})

	Convey("Given no bucket", t, func() {
		_, err := NewS3Source(context.Background(), "", "x")
		So(errors.Is(err, ErrArtifactLoad), ShouldBeTrue)
	})

	Convey("Given an empty prefix", t, func() {
		src, err := NewS3Source(context.Background(), "b", "", WithClient(&fakeS3{}))
		So(err, ShouldBeNil)
		So(src.Location("model.json"), ShouldEqual, "s3://b/model.json")
	})
}
