// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hostconfig bootstraps process configuration from the
// environment. It covers exactly the variables the host reads at
// startup; deployment-wide, multi-source configuration is out of
// scope for a process with a single flat settings file.
package hostconfig

import "os"

// Env is dev or prod. In dev (with HOT_RELOAD on) the host watches the
// module and feature source trees and rebuilds on change; in prod it
// builds once at startup and then watches only the build directory.
type Env string

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

// Config is the process-wide bootstrap configuration, read once at
// startup from the environment.
type Config struct {
	AppEnv       Env
	Port         string
	HotReload    bool
	AppAutoload  bool
	ModulesDir   string
	FeaturesDir  string
	BuildDir     string
	FeatureBuild string
	SettingsPath string
}

// Load reads APP_ENV, APP_PORT, HOT_RELOAD and APP_AUTOLOAD from the
// environment, applying the documented defaults for anything unset or
// unrecognized. Deployment-layout paths are fixed, matching the
// directory conventions the rest of the host assumes.
func Load() Config {
	return Config{
		AppEnv:       parseEnv(os.Getenv("APP_ENV")),
		Port:         orDefault(os.Getenv("APP_PORT"), "3000"),
		HotReload:    os.Getenv("HOT_RELOAD") != "0",
		AppAutoload:  os.Getenv("APP_AUTOLOAD") == "1",
		ModulesDir:   "./modules",
		FeaturesDir:  "./features",
		BuildDir:     "./build",
		FeatureBuild: "./build",
		SettingsPath: "./admin/config/features.json",
	}
}

func parseEnv(v string) Env {
	if v == string(EnvProd) {
		return EnvProd
	}
	return EnvDev
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
