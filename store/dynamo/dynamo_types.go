package dynamo

import "time"

const blobSK = "DATA"

type dynamoBlob struct {
	PK      string `dynamodbav:"PK"`
	SK      string `dynamodbav:"SK"`
	Value   []byte `dynamodbav:"Value"`
	Updated int64  `dynamodbav:"Updated"`
}

func blobPK(key string) string {
	return "BLOB#" + key
}

func blobToDynamo(key string, value []byte, now time.Time) dynamoBlob {
	return dynamoBlob{
		PK:      blobPK(key),
		SK:      blobSK,
		Value:   value,
		Updated: now.Unix(),
	}
}
