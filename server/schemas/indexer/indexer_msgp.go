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
  msgpack encoders for the find/tag items, for py-carbonate style consumers
  that ask for format=msgpack
*/

package indexer

import (
	"github.com/tinylib/msgp/msgp"
)

// EncodeMsg implements msgp.Encodable
func (z *MetricFindItem) EncodeMsg(en *msgp.Writer) (err error) {
	if err = en.WriteMapHeader(8); err != nil {
		return
	}
	if err = en.WriteString("text"); err != nil {
		return
	}
	if err = en.WriteString(z.Text); err != nil {
		return
	}
	if err = en.WriteString("expandable"); err != nil {
		return
	}
	if err = en.WriteUint32(z.Expandable); err != nil {
		return
	}
	if err = en.WriteString("leaf"); err != nil {
		return
	}
	if err = en.WriteUint32(z.Leaf); err != nil {
		return
	}
	if err = en.WriteString("id"); err != nil {
		return
	}
	if err = en.WriteString(z.Id); err != nil {
		return
	}
	if err = en.WriteString("path"); err != nil {
		return
	}
	if err = en.WriteString(z.Path); err != nil {
		return
	}
	if err = en.WriteString("allowChildren"); err != nil {
		return
	}
	if err = en.WriteUint32(z.AllowChildren); err != nil {
		return
	}
	if err = en.WriteString("uniqueid"); err != nil {
		return
	}
	if err = en.WriteString(z.UniqueId); err != nil {
		return
	}
	if err = en.WriteString("tags"); err != nil {
		return
	}
	if err = en.WriteArrayHeader(uint32(len(z.Tags))); err != nil {
		return
	}
	for _, t := range z.Tags {
		if err = en.WriteMapHeader(2); err != nil {
			return
		}
		if err = en.WriteString("name"); err != nil {
			return
		}
		if err = en.WriteString(t.Name); err != nil {
			return
		}
		if err = en.WriteString("value"); err != nil {
			return
		}
		if err = en.WriteString(t.Value); err != nil {
			return
		}
	}
	return nil
}

// EncodeMsg implements msgp.Encodable
func (z MetricFindItems) EncodeMsg(en *msgp.Writer) (err error) {
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

// EncodeMsg implements msgp.Encodable
func (z *MetricExpandItem) EncodeMsg(en *msgp.Writer) (err error) {
	if err = en.WriteMapHeader(1); err != nil {
		return
	}
	if err = en.WriteString("results"); err != nil {
		return
	}
	if err = en.WriteArrayHeader(uint32(len(z.Results))); err != nil {
		return
	}
	for _, r := range z.Results {
		if err = en.WriteString(r); err != nil {
			return
		}
	}
	return nil
}

// EncodeMsg implements msgp.Encodable
func (z *MetricTagItem) EncodeMsg(en *msgp.Writer) (err error) {
	if err = en.WriteMapHeader(3); err != nil {
		return
	}
	if err = en.WriteString("name"); err != nil {
		return
	}
	if err = en.WriteString(z.Name); err != nil {
		return
	}
	if err = en.WriteString("value"); err != nil {
		return
	}
	if err = en.WriteString(z.Value); err != nil {
		return
	}
	if err = en.WriteString("is_meta"); err != nil {
		return
	}
	if err = en.WriteBool(z.IsMeta); err != nil {
		return
	}
	return nil
}

// EncodeMsg implements msgp.Encodable
func (z MetricTagItems) EncodeMsg(en *msgp.Writer) (err error) {
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

// EncodeMsg implements msgp.Encodable
func (z MetricListItems) EncodeMsg(en *msgp.Writer) (err error) {
	if err = en.WriteArrayHeader(uint32(len(z))); err != nil {
		return
	}
	for _, item := range z {
		if err = en.WriteString(item); err != nil {
			return
		}
	}
	return nil
}

// EncodeMsg implements msgp.Encodable
func (z UidList) EncodeMsg(en *msgp.Writer) (err error) {
	if err = en.WriteArrayHeader(uint32(len(z))); err != nil {
		return
	}
	for _, item := range z {
		if err = en.WriteString(item); err != nil {
			return
		}
	}
	return nil
}
