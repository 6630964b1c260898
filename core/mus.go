package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the domain types. Timestamps are encoded
// as Unix micro int64 and restored in UTC. Vectors use raw float32 encoding.

// IDMUS serializes core.ID values.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// TopicAttributesMUS serializes TopicAttributes values.
var TopicAttributesMUS = topicAttributesMUS{}

type topicAttributesMUS struct{}

func (s topicAttributesMUS) Marshal(v TopicAttributes, bs []byte) (n int) {
	n = ord.String.Marshal(v.Field, bs)
	n += ord.String.Marshal(v.SubField, bs[n:])
	n += ord.String.Marshal(v.SubjectMatter, bs[n:])
	n += ord.String.Marshal(v.Relevance, bs[n:])
	n += ord.String.Marshal(v.PotentialImpact, bs[n:])
	n += ord.String.Marshal(v.Hotness, bs[n:])
	return
}

func (s topicAttributesMUS) Unmarshal(bs []byte) (v TopicAttributes, n int, err error) {
	var n1 int
	if v.Field, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.SubField, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SubjectMatter, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Relevance, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.PotentialImpact, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Hotness, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return
}

func (s topicAttributesMUS) Size(v TopicAttributes) (size int) {
	size = ord.String.Size(v.Field)
	size += ord.String.Size(v.SubField)
	size += ord.String.Size(v.SubjectMatter)
	size += ord.String.Size(v.Relevance)
	size += ord.String.Size(v.PotentialImpact)
	size += ord.String.Size(v.Hotness)
	return
}

// TopicMUS serializes Topic values.
var TopicMUS = topicMUS{}

type topicMUS struct{}

func (s topicMUS) Marshal(v Topic, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += TopicAttributesMUS.Marshal(v.Attributes, bs[n:])
	return
}

func (s topicMUS) Unmarshal(bs []byte) (v Topic, n int, err error) {
	var n1 int
	if v.Name, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Attributes, n1, err = TopicAttributesMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return
}

func (s topicMUS) Size(v Topic) (size int) {
	return ord.String.Size(v.Name) + TopicAttributesMUS.Size(v.Attributes)
}

// StoredTopicMUS serializes StoredTopic values.
var StoredTopicMUS = storedTopicMUS{}

type storedTopicMUS struct{}

func (s storedTopicMUS) Marshal(v StoredTopic, bs []byte) (n int) {
	n = ord.String.Marshal(v.Key, bs)
	n += TopicMUS.Marshal(v.Topic, bs[n:])
	n += varint.Int.Marshal(len(v.Vector), bs[n:])
	for _, f := range v.Vector {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	n += varint.Int64.Marshal(v.StoredAt.UnixMicro(), bs[n:])
	return
}

func (s storedTopicMUS) Unmarshal(bs []byte) (v StoredTopic, n int, err error) {
	var n1 int
	if v.Key, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Topic, n1, err = TopicMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var length int
	if length, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if length > 0 {
		v.Vector = make([]float32, length)
		for i := 0; i < length; i++ {
			if v.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
				return v, n + n1, err
			}
			n += n1
		}
	}
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.StoredAt = time.UnixMicro(micros).UTC()
	return
}

func (s storedTopicMUS) Size(v StoredTopic) (size int) {
	size = ord.String.Size(v.Key)
	size += TopicMUS.Size(v.Topic)
	size += varint.Int.Size(len(v.Vector))
	for _, f := range v.Vector {
		size += raw.Float32.Size(f)
	}
	size += varint.Int64.Size(v.StoredAt.UnixMicro())
	return
}

// CollectionInfoMUS serializes CollectionInfo values.
var CollectionInfoMUS = collectionInfoMUS{}

type collectionInfoMUS struct{}

func (s collectionInfoMUS) Marshal(v CollectionInfo, bs []byte) (n int) {
	n = varint.Int.Marshal(v.Dimension, bs)
	n += ord.String.Marshal(v.Metric, bs[n:])
	n += varint.Int64.Marshal(v.CreatedAt.UnixMicro(), bs[n:])
	return
}

func (s collectionInfoMUS) Unmarshal(bs []byte) (v CollectionInfo, n int, err error) {
	var n1 int
	if v.Dimension, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	if v.Metric, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.CreatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s collectionInfoMUS) Size(v CollectionInfo) (size int) {
	size = varint.Int.Size(v.Dimension)
	size += ord.String.Size(v.Metric)
	size += varint.Int64.Size(v.CreatedAt.UnixMicro())
	return
}
