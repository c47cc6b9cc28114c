package community

// GraphQL operation names understood by the community API.
const (
	opGetWatchHistory = "GetWatchHistoryHub"
	opRemoveActivity  = "removeActivity"
)

const getWatchHistoryQuery = `
query GetWatchHistoryHub($uuid: ID = "", $first: PaginationInt!, $after: String, $skipUserState: Boolean = false) {
  user(id: $uuid) {
    watchHistory(first: $first, after: $after) {
      nodes {
        id
        date
        metadataItem {
          id
          title
          type
          year
          index
          parent {
            id
            title
            type
            index
          }
          grandparent {
            id
            title
            type
          }
          userState @skip(if: $skipUserState) {
            viewCount
          }
        }
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
}
`

const removeActivityQuery = `
mutation removeActivity($input: RemoveActivityInput!) {
  removeActivity(input: $input)
}
`

// activityTypeWatchHistory is the RemoveActivityInput.type for history entries.
const activityTypeWatchHistory = "WATCH_HISTORY"
