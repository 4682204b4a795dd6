package db

import (
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"

	"tabscribe/constants"
	"tabscribe/model"
)

// dynamo caps BatchGetItem key counts; anything beyond is silently ignored
// since metadata is best-effort enrichment anyway
const maxMetadataKeys = 10

// GetSongMetadatas looks up curated song metadata for the given video IDs.
// The lookup never fails a transcription: without a configured endpoint, or
// on any DynamoDB error, it returns an empty map.
func GetSongMetadatas(videoIDs []string) map[string]model.SongMetadata {
	res := make(map[string]model.SongMetadata)

	endpoint := constants.GetMetadataEndpoint()
	if endpoint == "" || len(videoIDs) == 0 {
		return res
	}
	if len(videoIDs) > maxMetadataKeys {
		videoIDs = videoIDs[:maxMetadataKeys]
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, id := range videoIDs {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		})
	}

	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		return res
	}

	table := constants.GetMetadataTable()
	client := dynamodb.New(sess)
	dbres, err := client.BatchGetItem(&dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			table: {Keys: keys},
		},
	})
	if err != nil {
		return res
	}

	for _, v := range dbres.Responses[table] {
		pk := v["PK"]
		if pk == nil || pk.S == nil {
			continue
		}
		var m model.SongMetadata
		m.VideoID = *pk.S
		if attr := v["Title"]; attr != nil && attr.S != nil {
			m.Title = *attr.S
		}
		if attr := v["Artist"]; attr != nil && attr.S != nil {
			m.Artist = *attr.S
		}
		if attr := v["Year"]; attr != nil && attr.N != nil {
			year, _ := strconv.ParseUint(*attr.N, 10, 32)
			m.Year = uint(year)
		}
		res[m.VideoID] = m
	}

	return res
}
