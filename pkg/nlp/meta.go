package nlp

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/maslahah/nlpviz/config"
	"github.com/maslahah/nlpviz/pkg/models"
)

const jsonSchemaDraft07 = "http://json-schema.org/draft-07/schema#"

var (
	metaSchemaOnce sync.Once
	metaSchema     *gojsonschema.Schema
	metaSchemaErr  error
)

// MetaSchema returns the JSON Schema that meta.json files must satisfy.
func MetaSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	schema := r.Reflect(&models.ModelMeta{})
	schema.Version = jsonSchemaDraft07
	return json.Marshal(schema)
}

func compiledMetaSchema() (*gojsonschema.Schema, error) {
	metaSchemaOnce.Do(func() {
		raw, err := MetaSchema()
		if err != nil {
			metaSchemaErr = err
			return
		}
		metaSchema, metaSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	})
	return metaSchema, metaSchemaErr
}

// ParseMeta validates raw meta.json content and decodes it.
func ParseMeta(raw []byte) (models.ModelMeta, error) {
	schema, err := compiledMetaSchema()
	if err != nil {
		return models.ModelMeta{}, fmt.Errorf("meta schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return models.ModelMeta{}, fmt.Errorf("invalid meta.json: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			problems[i] = e.String()
		}
		return models.ModelMeta{}, fmt.Errorf("invalid meta.json: %s", strings.Join(problems, "; "))
	}

	var meta models.ModelMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return models.ModelMeta{}, fmt.Errorf("invalid meta.json: %w", err)
	}
	return meta, nil
}

// checkCompatibility reports whether the running version satisfies the
// pipeline's nlpviz_version constraint. Pipelines without a constraint and
// non-semver builds are always compatible.
func checkCompatibility(meta models.ModelMeta, running string) (bool, error) {
	if meta.NLPVizVersion == "" {
		return true, nil
	}
	constraint, err := semver.NewConstraint(meta.NLPVizVersion)
	if err != nil {
		return false, fmt.Errorf("invalid nlpviz_version %q: %w", meta.NLPVizVersion, err)
	}
	version, err := semver.NewVersion(running)
	if err != nil {
		log.Debugf("skipping compatibility check for version %q", running)
		return true, nil
	}
	return constraint.Check(version), nil
}

func warnIfIncompatible(meta models.ModelMeta) error {
	ok, err := checkCompatibility(meta, config.Version)
	if err != nil {
		return err
	}
	if !ok {
		log.Warnf(
			"model %s (%s) was built for nlpviz %s but this is %s; results may differ",
			meta.Name,
			meta.Version,
			meta.NLPVizVersion,
			config.Version,
		)
	}
	return nil
}
