// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persistent types. Hand-written against the
// serializer-value API; field order is part of the storage format and
// must not change between releases.
var (
	IDMUS                = idSer{}
	AnswerValueMUS       = answerValueSer{}
	GeneratedQuestionMUS = generatedQuestionSer{}
	DocumentChunkMUS     = documentChunkSer{}
	AssessmentMUS        = assessmentSer{}

	vectorMUS    = ord.NewSliceSer[float32](raw.Float32)
	stringsMUS   = ord.NewSliceSer[string](ord.String)
	questionsMUS = ord.NewSliceSer[GeneratedQuestion](GeneratedQuestionMUS)
)

type idSer struct{}

func (idSer) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idSer) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type answerValueSer struct{}

func (answerValueSer) Marshal(a AnswerValue, bs []byte) (n int) {
	n = ord.Bool.Marshal(a.Scalar, bs)
	n += stringsMUS.Marshal(a.Slots, bs[n:])
	return
}

func (answerValueSer) Unmarshal(bs []byte) (a AnswerValue, n int, err error) {
	a.Scalar, n, err = ord.Bool.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	a.Slots, n1, err = stringsMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (answerValueSer) Size(a AnswerValue) int {
	return ord.Bool.Size(a.Scalar) + stringsMUS.Size(a.Slots)
}

func (answerValueSer) Skip(bs []byte) (n int, err error) {
	n, err = ord.Bool.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = stringsMUS.Skip(bs[n:])
	n += n1
	return
}

type generatedQuestionSer struct{}

func (generatedQuestionSer) Marshal(q GeneratedQuestion, bs []byte) (n int) {
	n = ord.String.Marshal(q.Text, bs)
	n += ord.String.Marshal(string(q.Type), bs[n:])
	n += stringsMUS.Marshal(q.Options, bs[n:])
	n += AnswerValueMUS.Marshal(q.CorrectAnswer, bs[n:])
	return
}

func (generatedQuestionSer) Unmarshal(bs []byte) (q GeneratedQuestion, n int, err error) {
	q.Text, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	var typ string
	typ, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	q.Type = AssessmentType(typ)
	q.Options, n1, err = stringsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	q.CorrectAnswer, n1, err = AnswerValueMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (generatedQuestionSer) Size(q GeneratedQuestion) int {
	return ord.String.Size(q.Text) +
		ord.String.Size(string(q.Type)) +
		stringsMUS.Size(q.Options) +
		AnswerValueMUS.Size(q.CorrectAnswer)
}

func (generatedQuestionSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	for _, skip := range []func([]byte) (int, error){
		ord.String.Skip,
		ord.String.Skip,
		stringsMUS.Skip,
		AnswerValueMUS.Skip,
	} {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type documentChunkSer struct{}

func (documentChunkSer) Marshal(c DocumentChunk, bs []byte) (n int) {
	n = IDMUS.Marshal(c.Id, bs)
	n += ord.String.Marshal(c.Text, bs[n:])
	n += ord.String.Marshal(c.SourceID, bs[n:])
	n += vectorMUS.Marshal(c.Vector, bs[n:])
	n += raw.Int64.Marshal(c.InsertedAt.UnixNano(), bs[n:])
	return
}

func (documentChunkSer) Unmarshal(bs []byte) (c DocumentChunk, n int, err error) {
	c.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	c.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.SourceID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var nanos int64
	nanos, n1, err = raw.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.InsertedAt = time.Unix(0, nanos).UTC()
	return
}

func (documentChunkSer) Size(c DocumentChunk) int {
	return IDMUS.Size(c.Id) +
		ord.String.Size(c.Text) +
		ord.String.Size(c.SourceID) +
		vectorMUS.Size(c.Vector) +
		raw.Int64.Size(c.InsertedAt.UnixNano())
}

func (documentChunkSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	for _, skip := range []func([]byte) (int, error){
		IDMUS.Skip,
		ord.String.Skip,
		ord.String.Skip,
		vectorMUS.Skip,
		raw.Int64.Skip,
	} {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type assessmentSer struct{}

func (assessmentSer) Marshal(a Assessment, bs []byte) (n int) {
	n = IDMUS.Marshal(a.Id, bs)
	n += ord.String.Marshal(a.Topic, bs[n:])
	n += ord.String.Marshal(string(a.Type), bs[n:])
	n += questionsMUS.Marshal(a.Questions, bs[n:])
	n += raw.Int64.Marshal(a.InsertedAt.UnixNano(), bs[n:])
	n += raw.Int64.Marshal(a.UpdatedAt.UnixNano(), bs[n:])
	return
}

func (assessmentSer) Unmarshal(bs []byte) (a Assessment, n int, err error) {
	a.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	a.Topic, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var typ string
	typ, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	a.Type = AssessmentType(typ)
	a.Questions, n1, err = questionsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var nanos int64
	nanos, n1, err = raw.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	a.InsertedAt = time.Unix(0, nanos).UTC()
	nanos, n1, err = raw.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	a.UpdatedAt = time.Unix(0, nanos).UTC()
	return
}

func (assessmentSer) Size(a Assessment) int {
	return IDMUS.Size(a.Id) +
		ord.String.Size(a.Topic) +
		ord.String.Size(string(a.Type)) +
		questionsMUS.Size(a.Questions) +
		raw.Int64.Size(a.InsertedAt.UnixNano()) +
		raw.Int64.Size(a.UpdatedAt.UnixNano())
}

func (assessmentSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	for _, skip := range []func([]byte) (int, error){
		IDMUS.Skip,
		ord.String.Skip,
		ord.String.Skip,
		questionsMUS.Skip,
		raw.Int64.Skip,
		raw.Int64.Skip,
	} {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
