/*
Copyright 2018 Corentin Chary

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
	replace $ENV{VAR_NAME:default} strings in raw config bytes with the
	environment variable VAR_NAME, or the default if the env is not set
*/

package envreplace

import (
	"bytes"
	"os"
	"regexp"
)

var envReg *regexp.Regexp

func init() {
	envReg = regexp.MustCompile(`\$ENV\{(.*?)\}`)
}

func ReplaceEnv(inbys []byte) []byte {

	for _, mtch := range envReg.FindAllSubmatch(inbys, -1) {
		if len(mtch) != 2 {
			continue
		}
		if len(mtch[0]) == 0 {
			continue
		}

		inbtween := bytes.Split(mtch[1], []byte(":"))
		envvar := string(inbtween[0])
		def := []byte("")
		if len(inbtween) >= 2 {
			def = inbtween[1]
		}
		env := os.Getenv(envvar)
		if len(env) > 0 {
			inbys = bytes.Replace(inbys, mtch[0], []byte(env), -1)
		} else {
			inbys = bytes.Replace(inbys, mtch[0], def, -1)
		}
	}
	return inbys
}
