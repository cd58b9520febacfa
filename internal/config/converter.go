// Package config provides functionality for parsing and validating
// batch pipeline configuration files (JSON/YAML).
package config

import "fmt"

// ConvertToBatchConfig converts parsed configuration data to a BatchConfig.
// The input data should have been validated against the schema before calling
// this function.
//
// The configuration is expected to have this structure:
//
//	{
//	  "schemaVersion": "1.0.0",
//	  "batch": {
//	    "name": "...",
//	    "inputField": "...",
//	    "outputField": "...",
//	    "rules": ["Label=prefix1,prefix2", ...],
//	    "workers": 4,
//	    "guard": "...",
//	    "script": "...",
//	    "control": {...}
//	  }
//	}
func ConvertToBatchConfig(data map[string]interface{}) (*BatchConfig, error) {
	if data == nil {
		return nil, fmt.Errorf("configuration data is nil")
	}

	batchData, ok := data["batch"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'batch' section")
	}

	cfg := &BatchConfig{}

	if cfg.Name, ok = batchData["name"].(string); !ok {
		return nil, fmt.Errorf("missing required field 'batch.name'")
	}
	if cfg.InputField, ok = batchData["inputField"].(string); !ok {
		return nil, fmt.Errorf("missing required field 'batch.inputField'")
	}
	if cfg.OutputField, ok = batchData["outputField"].(string); !ok {
		return nil, fmt.Errorf("missing required field 'batch.outputField'")
	}

	rawRules, ok := batchData["rules"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'batch.rules' section")
	}
	cfg.Rules = make([]string, 0, len(rawRules))
	for i, item := range rawRules {
		rule, okRule := item.(string)
		if !okRule {
			return nil, fmt.Errorf("rule at index %d must be a string", i)
		}
		cfg.Rules = append(cfg.Rules, rule)
	}

	if workers, okWorkers := intValue(batchData["workers"]); okWorkers {
		cfg.Workers = workers
	}
	if guard, okGuard := batchData["guard"].(string); okGuard {
		cfg.Guard = guard
	}
	if script, okScript := batchData["script"].(string); okScript {
		cfg.Script = script
	}

	if rawControl, okControl := batchData["control"].(map[string]interface{}); okControl {
		control, err := convertControlConfig(rawControl)
		if err != nil {
			return nil, err
		}
		cfg.Control = control
	}

	return cfg, nil
}

func convertControlConfig(data map[string]interface{}) (*ControlConfig, error) {
	control := &ControlConfig{}
	var ok bool

	if control.RedisAddr, ok = data["redisAddr"].(string); !ok {
		return nil, fmt.Errorf("missing required field 'batch.control.redisAddr'")
	}
	if control.Key, ok = data["key"].(string); !ok {
		return nil, fmt.Errorf("missing required field 'batch.control.key'")
	}
	if control.Channel, ok = data["channel"].(string); !ok {
		return nil, fmt.Errorf("missing required field 'batch.control.channel'")
	}

	return control, nil
}

// intValue coerces a JSON/YAML decoded numeric value to int.
func intValue(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
