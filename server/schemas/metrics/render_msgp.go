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

// msgpack encoders for the render objects

package metrics

import (
	"github.com/tinylib/msgp/msgp"
)

// EncodeMsg implements msgp.Encodable
func (z *DataPoint) EncodeMsg(en *msgp.Writer) (err error) {
	if err = en.WriteArrayHeader(2); err != nil {
		return
	}
	if err = en.WriteFloat64(z.Value); err != nil {
		return
	}
	if err = en.WriteUint32(z.Time); err != nil {
		return
	}
	return nil
}

// EncodeMsg implements msgp.Encodable
func (z *GraphiteApiItem) EncodeMsg(en *msgp.Writer) (err error) {
	if err = en.WriteMapHeader(2); err != nil {
		return
	}
	if err = en.WriteString("target"); err != nil {
		return
	}
	if err = en.WriteString(z.Target); err != nil {
		return
	}
	if err = en.WriteString("datapoints"); err != nil {
		return
	}
	if err = en.WriteArrayHeader(uint32(len(z.Datapoints))); err != nil {
		return
	}
	for _, d := range z.Datapoints {
		if err = d.EncodeMsg(en); err != nil {
			return
		}
	}
	return nil
}

// EncodeMsg implements msgp.Encodable
func (z GraphiteApiItems) EncodeMsg(en *msgp.Writer) (err error) {
	if err = en.WriteArrayHeader(uint32(len(z))); err != nil {
		return
	}
	for _, item := range z {
		if err = item.EncodeMsg(en); err != nil {
			return
		}
	}
	return nil
}
